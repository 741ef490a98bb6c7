// Package monitor delivers LLM call records to OpenLLM Monitor targets.
// Delivery is best-effort: failures are logged and never surface to callers.
package monitor

import (
	"context"
	"fmt"

	"llmmonitor/internal/core"
	"llmmonitor/internal/util"
)

// ReporterConfig configuration for Reporter
type ReporterConfig struct {
	Enabled bool
	Sinks   []core.Sink
	Logger  core.Logger
}

// Reporter fans a log record out to its sinks.
type Reporter struct {
	enabled bool
	sinks   []core.Sink
	logger  core.Logger
}

// NewReporter creates a Reporter. A nil logger discards warnings.
func NewReporter(cfg ReporterConfig) *Reporter {
	logger := cfg.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Reporter{
		enabled: cfg.Enabled,
		sinks:   cfg.Sinks,
		logger:  logger,
	}
}

// Enabled reports whether records are delivered at all.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled && len(r.sinks) > 0
}

// Report serializes record and sends it to every sink. It assigns a request ID
// when the record has none. Caller cancellation does not abort delivery; each
// sink applies its own timeout.
func (r *Reporter) Report(ctx context.Context, record *core.LogRecord) {
	if !r.Enabled() || record == nil {
		return
	}

	if record.RequestID == "" {
		record.RequestID = util.GenerateID(core.RequestIDPrefix)
	}

	payload, err := util.MarshalJSON(record)
	if err != nil {
		r.warn(fmt.Errorf("encode record: %w", err))
		return
	}

	sendCtx := context.WithoutCancel(ctx)
	for _, sink := range r.sinks {
		if err := r.send(sendCtx, sink, record.RequestID, payload); err != nil {
			r.warn(err)
			continue
		}
		r.logger.Debug("Logged %s %s to %s sink (request %s)", record.Endpoint, record.Model, sink.Name(), record.RequestID)
	}
}

func (r *Reporter) send(ctx context.Context, sink core.Sink, requestID string, payload []byte) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s sink panicked: %v", sink.Name(), p)
		}
	}()
	return sink.Send(ctx, requestID, payload)
}

func (r *Reporter) warn(err error) {
	r.logger.Warn("%s%v", core.MonitorWarningPrefix, err)
}

// Close releases sink resources.
func (r *Reporter) Close() error {
	if r == nil {
		return nil
	}
	return closeSinks(r.sinks)
}
