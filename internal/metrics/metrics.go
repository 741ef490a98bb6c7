package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"llmmonitor/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	logsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openllm_logs_total",
		Help: "Total number of LLM call records received",
	}, []string{"provider", "model", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "openllm_request_latency_seconds",
		Help:    "Reported LLM call latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider", "model"})

	tokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openllm_tokens_total",
		Help: "Total number of tokens reported",
	}, []string{"provider", "model", "token_type"})

	costTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openllm_cost_usd_total",
		Help: "Estimated spend in USD",
	}, []string{"provider", "model"})
)

// Label values seen past the cap are reported as "other".
const otherLabel = "other"

var (
	providerLabels = newLabelSet(len(knownProviders), knownProviders...)
	modelLabels    = newLabelSet(core.MaxModelLabels)
)

var knownProviders = []string{core.ProviderOpenAI, core.ProviderOpenRouter, core.ProviderMistral, core.ProviderOllama}

// labelSet bounds the distinct values one Prometheus label may take.
type labelSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
	max  int
}

func newLabelSet(limit int, preset ...string) *labelSet {
	ls := &labelSet{seen: make(map[string]struct{}, limit), max: limit}
	for _, v := range preset {
		ls.seen[v] = struct{}{}
	}
	return ls
}

func (ls *labelSet) value(v string) string {
	if v == "" {
		return otherLabel
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.seen[v]; ok {
		return v
	}
	if len(ls.seen) >= ls.max {
		return otherLabel
	}
	ls.seen[v] = struct{}{}
	return v
}

// AtomicRequestStats thread-safe request counters
type AtomicRequestStats struct {
	TotalRequests      atomic.Int64
	SuccessfulRequests atomic.Int64
	FailedRequests     atomic.Int64
}

// MetricsConfig configuration for MetricsService
type MetricsConfig struct {
	HistorySize int
	Logger      core.Logger
}

var _ core.MetricsCollector = (*MetricsService)(nil)

// MetricsService aggregates statistics over received log records
type MetricsService struct {
	atomicStats     AtomicRequestStats
	totalLatency    float64
	requestHistory  []core.RequestRecord
	historyMu       sync.RWMutex
	lastRequestTime time.Time
	maxHistorySize  int
	logger          core.Logger

	done             chan struct{}
	closeOnce        sync.Once
	historyBuffer    []core.RequestRecord
	bufferMu         sync.Mutex
	bufferFlushTimer *time.Ticker
	recentRequests   []time.Time
	recentMu         sync.Mutex
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(config MetricsConfig) *MetricsService {
	if config.HistorySize <= 0 {
		config.HistorySize = core.HistoryBufferSize
	}
	if config.Logger == nil {
		config.Logger = &core.NopLogger{}
	}

	ms := &MetricsService{
		maxHistorySize: config.HistorySize,
		logger:         config.Logger,
		done:           make(chan struct{}),
		historyBuffer:  make([]core.RequestRecord, 0, core.HistoryBatchSize),
	}

	ms.bufferFlushTimer = time.NewTicker(core.HistoryFlushInterval)
	go ms.flushLoop()

	return ms
}

func (ms *MetricsService) flushLoop() {
	for {
		select {
		case <-ms.bufferFlushTimer.C:
			ms.flushBuffer()
		case <-ms.done:
			return
		}
	}
}

func (ms *MetricsService) flushBuffer() {
	ms.bufferMu.Lock()
	if len(ms.historyBuffer) == 0 {
		ms.bufferMu.Unlock()
		return
	}
	batch := ms.historyBuffer
	ms.historyBuffer = make([]core.RequestRecord, 0, core.HistoryBatchSize)
	ms.bufferMu.Unlock()

	ms.historyMu.Lock()
	ms.requestHistory = append(ms.requestHistory, batch...)
	if len(ms.requestHistory) > ms.maxHistorySize {
		ms.requestHistory = ms.requestHistory[len(ms.requestHistory)-ms.maxHistorySize:]
	}
	ms.historyMu.Unlock()
}

// RecordLog records one received log record
func (ms *MetricsService) RecordLog(record *core.LogRecord) {
	if record == nil {
		return
	}

	now := time.Now()
	success := record.Succeeded()
	var cost float64
	if record.Cost != nil {
		cost = record.Cost.TotalCost
	}

	ms.atomicStats.TotalRequests.Add(1)
	if success {
		ms.atomicStats.SuccessfulRequests.Add(1)
	} else {
		ms.atomicStats.FailedRequests.Add(1)
	}

	ms.historyMu.Lock()
	ms.lastRequestTime = now
	ms.totalLatency += record.Latency
	ms.historyMu.Unlock()

	ms.recentMu.Lock()
	ms.recentRequests = append(ms.recentRequests, now)
	ms.pruneRecentLocked(now)
	ms.recentMu.Unlock()

	observe(record, success, cost)

	entry := core.RequestRecord{
		Timestamp: record.ReceivedAt(),
		Success:   success,
		Latency:   record.Latency,
		Model:     record.Model,
		Provider:  record.Provider,
		Cost:      cost,
	}

	ms.bufferMu.Lock()
	ms.historyBuffer = append(ms.historyBuffer, entry)
	shouldFlush := len(ms.historyBuffer) >= core.HistoryBatchSize
	ms.bufferMu.Unlock()

	if shouldFlush {
		ms.flushBuffer()
	}
}

func observe(record *core.LogRecord, success bool, cost float64) {
	status := core.StatusError
	if success {
		status = core.StatusSuccess
	}
	provider := providerLabels.value(record.Provider)
	model := modelLabels.value(record.Model)

	logsTotal.WithLabelValues(provider, model, status).Inc()
	requestLatency.WithLabelValues(provider, model).Observe(record.Latency / 1000)

	if u := record.TokenUsage; u != nil {
		if u.PromptTokens > 0 {
			tokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(u.PromptTokens))
		}
		if u.CompletionTokens > 0 {
			tokensTotal.WithLabelValues(provider, model, "completion").Add(float64(u.CompletionTokens))
		}
	}
	if cost > 0 {
		costTotal.WithLabelValues(provider, model).Add(cost)
	}
}

func (ms *MetricsService) pruneRecentLocked(now time.Time) {
	cutoff := now.Add(-core.QPSWindow)
	startIdx := 0
	for startIdx < len(ms.recentRequests) && ms.recentRequests[startIdx].Before(cutoff) {
		startIdx++
	}
	if startIdx > 0 {
		newRecent := make([]time.Time, len(ms.recentRequests)-startIdx)
		copy(newRecent, ms.recentRequests[startIdx:])
		ms.recentRequests = newRecent
	}
}

// GetQPS returns records per second over the last minute
func (ms *MetricsService) GetQPS() float64 {
	ms.recentMu.Lock()
	defer ms.recentMu.Unlock()

	ms.pruneRecentLocked(time.Now())
	if len(ms.recentRequests) == 0 {
		return 0
	}
	return math.Round(float64(len(ms.recentRequests))/core.QPSWindow.Seconds()*1000) / 1000
}

// GetRequestStats returns current stats snapshot
func (ms *MetricsService) GetRequestStats() core.RequestStats {
	ms.flushBuffer()
	ms.historyMu.RLock()
	defer ms.historyMu.RUnlock()

	historyCopy := make([]core.RequestRecord, len(ms.requestHistory))
	copy(historyCopy, ms.requestHistory)

	return core.RequestStats{
		TotalRequests:      ms.atomicStats.TotalRequests.Load(),
		SuccessfulRequests: ms.atomicStats.SuccessfulRequests.Load(),
		FailedRequests:     ms.atomicStats.FailedRequests.Load(),
		TotalLatency:       ms.totalLatency,
		LastRequestTime:    ms.lastRequestTime,
		RequestHistory:     historyCopy,
	}
}

// GetPeriodStats computes period statistics for multiple hour windows in a single pass.
func GetPeriodStats(history []core.RequestRecord, hourPeriods ...int) map[int]core.PeriodStats {
	if len(hourPeriods) == 0 {
		return nil
	}

	now := time.Now()
	cutoffs := make([]time.Time, len(hourPeriods))
	requests := make([]int64, len(hourPeriods))
	successful := make([]int64, len(hourPeriods))
	latency := make([]float64, len(hourPeriods))
	cost := make([]float64, len(hourPeriods))

	for i, hours := range hourPeriods {
		cutoffs[i] = now.Add(-time.Duration(hours) * time.Hour)
	}

	for _, record := range history {
		for i, cutoff := range cutoffs {
			if record.Timestamp.After(cutoff) {
				requests[i]++
				latency[i] += record.Latency
				cost[i] += record.Cost
				if record.Success {
					successful[i]++
				}
			}
		}
	}

	result := make(map[int]core.PeriodStats, len(hourPeriods))
	for i, hours := range hourPeriods {
		stats := core.PeriodStats{
			Requests:  requests[i],
			TotalCost: roundCost(cost[i]),
			QPS:       float64(requests[i]) / (float64(hours) * 3600.0),
		}
		if requests[i] > 0 {
			stats.SuccessRate = float64(successful[i]) / float64(requests[i]) * 100
			stats.AvgLatency = latency[i] / float64(requests[i])
		}
		result[hours] = stats
	}
	return result
}

func roundCost(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Close stops the flush loop. Safe to call more than once.
func (ms *MetricsService) Close() error {
	ms.closeOnce.Do(func() {
		close(ms.done)
		ms.bufferFlushTimer.Stop()
		ms.flushBuffer()
		ms.logger.Debug("Metrics service stopped after %d records", ms.atomicStats.TotalRequests.Load())
	})
	return nil
}
