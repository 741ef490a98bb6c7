// Package openai provides an OpenAI-style client whose calls are reported to
// OpenLLM Monitor. Inference is simulated.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"llmmonitor/internal/config"
	"llmmonitor/internal/core"
	logpkg "llmmonitor/internal/log"
	"llmmonitor/internal/monitor"
	"llmmonitor/internal/util"
)

// Client mirrors the SDK namespace layout: client.Chat.Completions.Create.
type Client struct {
	apiKey       string
	organization string
	source       string

	backend  Backend
	reporter *monitor.Reporter
	logger   core.Logger
	now      func() time.Time

	Chat        *ChatService
	Completions *CompletionsService
	Embeddings  *EmbeddingsService
}

// ChatService groups chat endpoints.
type ChatService struct {
	Completions *ChatCompletionsService
}

// NewClient builds a monitored client. Settings come from the environment
// first and options second; a missing API key fails with ErrMissingAPIKey.
func NewClient(opts ...Option) (*Client, error) {
	cfg, err := config.LoadClientConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load client config: %w", err)
	}

	o := &clientOptions{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if strings.TrimSpace(o.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	logger := o.logger
	if logger == nil {
		logger = logpkg.CreateLogger()
	}

	reporter := o.reporter
	if reporter == nil {
		reporter = newReporter(o, logger)
	}

	backend := o.backend
	if backend == nil {
		backend = NewSimulatedBackend(o.cfg.SimulatedLatency)
	}

	c := &Client{
		apiKey:       o.cfg.APIKey,
		organization: o.cfg.Organization,
		source:       o.cfg.Source,
		backend:      backend,
		reporter:     reporter,
		logger:       logger,
		now:          o.now,
	}
	c.Chat = &ChatService{Completions: &ChatCompletionsService{client: c}}
	c.Completions = &CompletionsService{client: c}
	c.Embeddings = &EmbeddingsService{client: c}

	logger.Debug("OpenAI wrapper ready (monitoring=%v, source=%s)", reporter.Enabled(), c.source)
	return c, nil
}

func newReporter(o *clientOptions, logger core.Logger) *monitor.Reporter {
	if !o.cfg.MonitorEnabled {
		return monitor.NewReporter(monitor.ReporterConfig{Enabled: false, Logger: logger})
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = config.NewHTTPClient(config.DefaultHTTPClientSettings())
	}

	sinks := monitor.InitSinks(context.Background(), monitor.SinkSettings{
		MonitorURL:   o.cfg.MonitorURL,
		RedisURL:     o.cfg.RedisURL,
		RedisChannel: o.cfg.RedisChannel,
		Timeout:      o.cfg.MonitorTimeout,
		HTTPClient:   httpClient,
	}, logger)

	return monitor.NewReporter(monitor.ReporterConfig{
		Enabled: true,
		Sinks:   sinks,
		Logger:  logger,
	})
}

// Organization returns the configured organization ID, if any.
func (c *Client) Organization() string {
	return c.organization
}

// Close releases monitor resources.
func (c *Client) Close() error {
	return c.reporter.Close()
}

// callInfo is what every wrapped call knows before it reaches the backend.
type callInfo struct {
	endpoint      string
	model         string
	requestBody   any
	prompt        string
	systemMessage string
	start         time.Time
}

func (c *Client) record(info callInfo, status int) *core.LogRecord {
	now := c.now()
	return &core.LogRecord{
		Timestamp:     util.FormatTimestamp(now),
		Provider:      core.ProviderOpenAI,
		Model:         info.model,
		Endpoint:      info.endpoint,
		Status:        core.FlexibleStatus(status),
		Latency:       float64(now.Sub(info.start)) / float64(time.Millisecond),
		RequestBody:   info.requestBody,
		Prompt:        info.prompt,
		SystemMessage: info.systemMessage,
		Source:        c.source,
	}
}

func (c *Client) reportSuccess(ctx context.Context, info callInfo, responseBody any, completion string, usage core.Usage) {
	rec := c.record(info, 200)
	rec.ResponseBody = responseBody
	rec.Completion = completion
	rec.TokenUsage = &usage
	c.reporter.Report(ctx, rec)
}

func (c *Client) reportFailure(ctx context.Context, info callInfo, err error) {
	rec := c.record(info, statusFromError(err))
	rec.ResponseBody = errorBody(err)
	rec.Error = err.Error()
	c.reporter.Report(ctx, rec)
}
