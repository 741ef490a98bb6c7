package core

import "context"

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// Sink delivers a serialized log record to one monitoring target.
type Sink interface {
	Name() string
	Send(ctx context.Context, requestID string, payload []byte) error
}

// MetricsCollector records ingest statistics.
type MetricsCollector interface {
	RecordLog(record *LogRecord)
	GetQPS() float64
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}
