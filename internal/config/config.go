package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"llmmonitor/internal/core"
	"llmmonitor/internal/util"
)

// ClientConfig configures the monitored client wrapper.
type ClientConfig struct {
	APIKey           string
	Organization     string
	MonitorURL       string
	MonitorEnabled   bool
	MonitorTimeout   time.Duration
	RedisURL         string
	RedisChannel     string
	SimulatedLatency time.Duration
	Source           string
}

// CollectorConfig configures the development log collector.
type CollectorConfig struct {
	Port             string
	GinMode          string
	LogCapacity      int
	RateLimit        int
	CORSAllowOrigins []string
	Logger           core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultClientConfig returns the wrapper defaults without reading the environment.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MonitorURL:       core.DefaultMonitorURL,
		MonitorEnabled:   true,
		MonitorTimeout:   core.DefaultMonitorTimeout,
		RedisChannel:     core.DefaultRedisChannel,
		SimulatedLatency: core.DefaultSimulatedLatency,
		Source:           core.DefaultSource,
	}
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// NewHTTPClient builds a pooled HTTP client from settings.
func NewHTTPClient(settings HTTPClientSettings) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          settings.MaxIdleConns,
		MaxIdleConnsPerHost:   settings.MaxIdleConnsPerHost,
		MaxConnsPerHost:       settings.MaxConnsPerHost,
		IdleConnTimeout:       settings.IdleConnTimeout,
		TLSHandshakeTimeout:   settings.TLSHandshakeTimeout,
		ExpectContinueTimeout: core.HTTPExpectContinueTimeout,
		ResponseHeaderTimeout: core.HTTPResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   settings.RequestTimeout,
	}
}

// LoadClientConfigFromEnv loads the wrapper configuration from environment variables.
// A missing API key is not an error here; client construction rejects it.
func LoadClientConfigFromEnv() (ClientConfig, error) {
	cfg := DefaultClientConfig()

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Organization = os.Getenv("OPENAI_ORGANIZATION")
	cfg.MonitorURL = util.GetEnvWithDefault("OPENLLM_MONITOR_URL", core.DefaultMonitorURL)
	cfg.MonitorEnabled = util.ParseBoolEnv("OPENLLM_MONITOR_ENABLED", true)
	cfg.RedisURL = os.Getenv("OPENLLM_MONITOR_REDIS_URL")
	cfg.RedisChannel = util.GetEnvWithDefault("OPENLLM_MONITOR_REDIS_CHANNEL", core.DefaultRedisChannel)
	cfg.Source = util.GetEnvWithDefault("OPENLLM_MONITOR_SOURCE", core.DefaultSource)

	timeout, err := util.ParseDurationEnv("OPENLLM_MONITOR_TIMEOUT", core.DefaultMonitorTimeout)
	if err != nil {
		return cfg, fmt.Errorf("invalid OPENLLM_MONITOR_TIMEOUT: %w", err)
	}
	cfg.MonitorTimeout = timeout

	latency, err := util.ParseDurationEnv("SIMULATED_LATENCY", core.DefaultSimulatedLatency)
	if err != nil {
		return cfg, fmt.Errorf("invalid SIMULATED_LATENCY: %w", err)
	}
	cfg.SimulatedLatency = latency

	return cfg, nil
}

// LoadCollectorConfigFromEnv loads collector config from environment variables
func LoadCollectorConfigFromEnv(logger core.Logger) (CollectorConfig, error) {
	capacity, err := util.ParsePositiveIntEnv("LOG_CAPACITY", core.DefaultLogCapacity)
	if err != nil {
		return CollectorConfig{}, fmt.Errorf("invalid LOG_CAPACITY: %w", err)
	}

	rateLimit, err := util.ParsePositiveIntEnv("RATE_LIMIT", core.DefaultRateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT value '%s', using default %d", os.Getenv("RATE_LIMIT"), core.DefaultRateLimit)
		rateLimit = core.DefaultRateLimit
	}

	origins := util.ParseEnvList(os.Getenv("CORS_ALLOW_ORIGIN"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cfg := CollectorConfig{
		Port:             util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:          util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		LogCapacity:      capacity,
		RateLimit:        rateLimit,
		CORSAllowOrigins: origins,
		Logger:           logger,
	}

	logger.Info("Collector keeps the latest %d log records in memory", cfg.LogCapacity)
	return cfg, nil
}
