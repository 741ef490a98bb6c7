package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"llmmonitor/internal/core"

	"github.com/redis/go-redis/v9"
)

// HTTPSink posts log records to the monitor's REST endpoint.
type HTTPSink struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPSink creates a sink for url. A nil client uses http.DefaultClient.
func NewHTTPSink(url string, client *http.Client, timeout time.Duration) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = core.DefaultMonitorTimeout
	}
	return &HTTPSink{url: url, client: client, timeout: timeout}
}

func (s *HTTPSink) Name() string { return "http" }

// Send performs one POST bounded by the sink timeout. Non-2xx replies are errors.
func (s *HTTPSink) Send(ctx context.Context, requestID string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build monitor request: %w", err)
	}
	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	if requestID != "" {
		req.Header.Set(core.HeaderRequestID, requestID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("monitor responded with status %d", resp.StatusCode)
	}
	return nil
}

// RedisSink publishes log records on a Redis channel for live feeds.
// Publishing is fire-and-forget; nothing is stored.
type RedisSink struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

// RedisSinkConfig Redis sink config
type RedisSinkConfig struct {
	URL     string
	Channel string
	Timeout time.Duration
}

// NewRedisSink parses the URL and builds a client. It does not dial.
func NewRedisSink(cfg RedisSinkConfig) (*RedisSink, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = -1

	channel := cfg.Channel
	if channel == "" {
		channel = core.DefaultRedisChannel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = core.DefaultMonitorTimeout
	}

	return &RedisSink{client: redis.NewClient(opts), channel: channel, timeout: timeout}, nil
}

func (s *RedisSink) Name() string { return "redis" }

// Ping checks connectivity within the sink timeout.
func (s *RedisSink) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisSink) Send(ctx context.Context, _ string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Publish(ctx, s.channel, payload).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}

// SinkSettings selects which sinks InitSinks builds.
type SinkSettings struct {
	MonitorURL   string
	RedisURL     string
	RedisChannel string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// InitSinks builds the HTTP sink and, when Redis is configured and reachable,
// the Redis sink. An unusable Redis setting is logged and skipped.
func InitSinks(ctx context.Context, settings SinkSettings, logger core.Logger) []core.Sink {
	var sinks []core.Sink

	if settings.MonitorURL != "" {
		sinks = append(sinks, NewHTTPSink(settings.MonitorURL, settings.HTTPClient, settings.Timeout))
	}

	if settings.RedisURL != "" {
		redisSink, err := NewRedisSink(RedisSinkConfig{
			URL:     settings.RedisURL,
			Channel: settings.RedisChannel,
			Timeout: settings.Timeout,
		})
		if err != nil {
			logger.Warn("Failed to configure Redis sink: %v", err)
			return sinks
		}
		if err := redisSink.Ping(ctx); err != nil {
			logger.Warn("Redis sink unreachable, publishing disabled: %v", err)
			_ = redisSink.Close()
			return sinks
		}
		logger.Info("Publishing log records to Redis channel %s", redisSink.channel)
		sinks = append(sinks, redisSink)
	}

	return sinks
}

// closeSinks closes every sink that holds resources.
func closeSinks(sinks []core.Sink) error {
	var closeErr error
	for _, s := range sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				closeErr = errors.Join(closeErr, fmt.Errorf("close %s sink: %w", s.Name(), err))
			}
		}
	}
	return closeErr
}
