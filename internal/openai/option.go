package openai

import (
	"errors"
	"net/http"
	"time"

	"llmmonitor/internal/config"
	"llmmonitor/internal/core"
	"llmmonitor/internal/monitor"
)

// Option configures a Client.
type Option func(*clientOptions) error

type clientOptions struct {
	cfg        config.ClientConfig
	logger     core.Logger
	reporter   *monitor.Reporter
	backend    Backend
	httpClient *http.Client
	now        func() time.Time
}

// WithAPIKey sets the API key. An empty key falls back to OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) error {
		if key != "" {
			o.cfg.APIKey = key
		}
		return nil
	}
}

func WithOrganization(org string) Option {
	return func(o *clientOptions) error {
		if org != "" {
			o.cfg.Organization = org
		}
		return nil
	}
}

func WithMonitorURL(url string) Option {
	return func(o *clientOptions) error {
		if url == "" {
			return errors.New("monitor URL cannot be empty")
		}
		o.cfg.MonitorURL = url
		return nil
	}
}

// WithMonitoring turns reporting on or off.
func WithMonitoring(enabled bool) Option {
	return func(o *clientOptions) error {
		o.cfg.MonitorEnabled = enabled
		return nil
	}
}

func WithMonitorTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) error {
		if timeout <= 0 {
			timeout = core.DefaultMonitorTimeout
		}
		o.cfg.MonitorTimeout = timeout
		return nil
	}
}

// WithRedis also publishes records on a Redis channel.
func WithRedis(url, channel string) Option {
	return func(o *clientOptions) error {
		o.cfg.RedisURL = url
		if channel != "" {
			o.cfg.RedisChannel = channel
		}
		return nil
	}
}

// WithSimulatedLatency sets how long the simulated provider sleeps.
func WithSimulatedLatency(d time.Duration) Option {
	return func(o *clientOptions) error {
		if d < 0 {
			d = 0
		}
		o.cfg.SimulatedLatency = d
		return nil
	}
}

// WithSource sets the source tag on every record.
func WithSource(source string) Option {
	return func(o *clientOptions) error {
		if source != "" {
			o.cfg.Source = source
		}
		return nil
	}
}

func WithLogger(logger core.Logger) Option {
	return func(o *clientOptions) error {
		o.logger = logger
		return nil
	}
}

// WithReporter replaces the reporter built from the monitor settings.
func WithReporter(r *monitor.Reporter) Option {
	return func(o *clientOptions) error {
		o.reporter = r
		return nil
	}
}

// WithBackend replaces the simulated provider.
func WithBackend(b Backend) Option {
	return func(o *clientOptions) error {
		if b == nil {
			return errors.New("backend cannot be nil")
		}
		o.backend = b
		return nil
	}
}

// WithHTTPClient sets the client used for monitor delivery.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) error {
		o.httpClient = client
		return nil
	}
}

func withClock(now func() time.Time) Option {
	return func(o *clientOptions) error {
		o.now = now
		return nil
	}
}
