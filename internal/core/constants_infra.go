package core

import "time"

// HTTP client config constants
const (
	HTTPMaxIdleConns          = 100
	HTTPMaxIdleConnsPerHost   = 10
	HTTPMaxConnsPerHost       = 20
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 10 * time.Second
	HTTPResponseHeaderTimeout = 10 * time.Second
	HTTPExpectContinueTimeout = 1 * time.Second
	HTTPRequestTimeout        = 30 * time.Second
)

// Monitor delivery constants
const (
	DefaultMonitorURL     = "http://localhost:3001/api/logs"
	DefaultMonitorTimeout = 2 * time.Second
	DefaultRedisChannel   = "openllm:logs"
	MonitorWarningPrefix  = "[OpenLLM Monitor] Warning: Failed to log request: "
)

// Simulation constants
const (
	DefaultSimulatedLatency = 500 * time.Millisecond
	PromptPreviewRunes      = 20
	CharsPerToken           = 4
	EmbeddingDimensions     = 16
)

// Stats and monitoring constants
const (
	HistoryBufferSize    = 1000
	HistoryBatchSize     = 100
	HistoryFlushInterval = 100 * time.Millisecond
	QPSWindow            = 1 * time.Minute
	MaxModelLabels       = 100
)

// Collector constants
const (
	DefaultLogCapacity  = 1000
	DefaultListLimit    = 50
	MaxListLimit        = 500
	DefaultRateLimit    = 120
	RateLimitBurst      = 20
	VisitorIdleTimeout  = 3 * time.Minute
	VisitorCleanupEvery = time.Minute
	MaxBodySize         = 10 << 20
	ShutdownTimeout     = 30 * time.Second
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
)

// Time format constants
const (
	TimeFormatISO = "2006-01-02T15:04:05.000Z"
)
