package metrics

import (
	"math"
	"testing"
	"time"

	"llmmonitor/internal/core"
	"llmmonitor/internal/util"
)

func newTestService(t *testing.T, historySize int) *MetricsService {
	t.Helper()
	ms := NewMetricsService(MetricsConfig{
		HistorySize: historySize,
		Logger:      &core.NopLogger{},
	})
	t.Cleanup(func() { _ = ms.Close() })
	return ms
}

func logRecord(provider, model string, status int, latency, cost float64) *core.LogRecord {
	rec := &core.LogRecord{
		Timestamp: util.FormatTimestamp(time.Now()),
		Provider:  provider,
		Model:     model,
		Status:    core.FlexibleStatus(status),
		Latency:   latency,
		TokenUsage: &core.Usage{
			PromptTokens:     10,
			CompletionTokens: 5,
			TotalTokens:      15,
		},
	}
	if cost > 0 {
		rec.Cost = &core.Cost{TotalCost: cost, Currency: "USD"}
	}
	return rec
}

func TestNewMetricsService(t *testing.T) {
	ms := newTestService(t, 10)
	if ms == nil {
		t.Fatal("MetricsService should not be nil")
	}
}

func TestMetricsService_RecordLog(t *testing.T) {
	ms := newTestService(t, 10)

	ms.RecordLog(logRecord("openai", "gpt-4", 200, 100, 0.01))
	ms.RecordLog(logRecord("openai", "gpt-4", 500, 200, 0))
	ms.RecordLog(logRecord("openrouter", "claude-3", 201, 150, 0.02))
	ms.RecordLog(nil)

	stats := ms.GetRequestStats()
	if stats.TotalRequests != 3 {
		t.Errorf("Expected 3 total requests, got %d", stats.TotalRequests)
	}
	if stats.SuccessfulRequests != 2 {
		t.Errorf("Expected 2 successful requests, got %d", stats.SuccessfulRequests)
	}
	if stats.FailedRequests != 1 {
		t.Errorf("Expected 1 failed request, got %d", stats.FailedRequests)
	}
	if stats.TotalLatency != 450 {
		t.Errorf("Expected total latency 450, got %v", stats.TotalLatency)
	}
	if len(stats.RequestHistory) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(stats.RequestHistory))
	}
	if h := stats.RequestHistory[2]; h.Provider != "openrouter" || h.Cost != 0.02 || !h.Success {
		t.Errorf("Unexpected history entry %+v", h)
	}
	if stats.LastRequestTime.IsZero() {
		t.Error("LastRequestTime should be set")
	}
}

func TestMetricsService_GetQPS(t *testing.T) {
	ms := newTestService(t, 10)

	if qps := ms.GetQPS(); qps != 0 {
		t.Errorf("QPS should start at 0, got %f", qps)
	}

	for i := 0; i < 6; i++ {
		ms.RecordLog(logRecord("openai", "gpt-4", 200, 10, 0))
	}
	if qps := ms.GetQPS(); qps != 0.1 {
		t.Errorf("Expected QPS 0.1, got %f", qps)
	}
}

func TestMetricsService_MaxHistorySize(t *testing.T) {
	ms := newTestService(t, 3)

	for i := 0; i < 5; i++ {
		ms.RecordLog(logRecord("openai", "model", 200, float64(i), 0))
	}

	stats := ms.GetRequestStats()
	if len(stats.RequestHistory) != 3 {
		t.Fatalf("History should be capped at 3, got %d", len(stats.RequestHistory))
	}
	if stats.RequestHistory[0].Latency != 2 {
		t.Errorf("Oldest entries should be dropped first, got %+v", stats.RequestHistory[0])
	}
}

func TestMetricsService_DefaultHistorySize(t *testing.T) {
	ms := newTestService(t, 0)
	if ms.maxHistorySize != core.HistoryBufferSize {
		t.Errorf("Expected default history size %d, got %d", core.HistoryBufferSize, ms.maxHistorySize)
	}
}

func TestMetricsService_FlushLoop(t *testing.T) {
	ms := newTestService(t, 10)
	ms.RecordLog(logRecord("openai", "gpt-4", 200, 10, 0))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ms.historyMu.RLock()
		n := len(ms.requestHistory)
		ms.historyMu.RUnlock()
		if n == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("Buffered record was not flushed by the ticker")
}

func TestMetricsService_Close_Idempotent(t *testing.T) {
	ms := NewMetricsService(MetricsConfig{HistorySize: 10})
	ms.RecordLog(logRecord("openai", "gpt-4", 200, 10, 0))

	if err := ms.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := ms.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if n := len(ms.GetRequestStats().RequestHistory); n != 1 {
		t.Errorf("Close should flush the buffer, got %d entries", n)
	}
}

func TestGetPeriodStats(t *testing.T) {
	now := time.Now()
	history := []core.RequestRecord{
		{Timestamp: now.Add(-1 * time.Hour), Success: true, Latency: 100, Cost: 0.001},
		{Timestamp: now.Add(-2 * time.Hour), Success: false, Latency: 300, Cost: 0},
		{Timestamp: now.Add(-48 * time.Hour), Success: true, Latency: 50, Cost: 0.002},
		{Timestamp: now.Add(-40 * 24 * time.Hour), Success: true, Latency: 10, Cost: 1},
	}

	result := GetPeriodStats(history, 24, 168, 720)

	day := result[24]
	if day.Requests != 2 {
		t.Errorf("24h requests = %d, want 2", day.Requests)
	}
	if day.SuccessRate != 50 {
		t.Errorf("24h success rate = %v, want 50", day.SuccessRate)
	}
	if day.AvgLatency != 200 {
		t.Errorf("24h avg latency = %v, want 200", day.AvgLatency)
	}
	if day.TotalCost != 0.001 {
		t.Errorf("24h cost = %v, want 0.001", day.TotalCost)
	}
	if math.Abs(day.QPS-2.0/86400.0) > 1e-12 {
		t.Errorf("24h qps = %v", day.QPS)
	}

	week := result[168]
	if week.Requests != 3 || week.TotalCost != 0.003 {
		t.Errorf("7d stats = %+v", week)
	}
	if month := result[720]; month.Requests != 3 {
		t.Errorf("30d requests = %d, want 3", month.Requests)
	}

	if GetPeriodStats(history) != nil {
		t.Error("No periods should give nil")
	}
	if empty := GetPeriodStats(nil, 24)[24]; empty.Requests != 0 || empty.AvgLatency != 0 {
		t.Errorf("Empty history stats = %+v", empty)
	}
}

func TestLabelSet_CapsDistinctValues(t *testing.T) {
	ls := newLabelSet(2, "openai")

	tests := []struct {
		in   string
		want string
	}{
		{"openai", "openai"},
		{"gpt-4", "gpt-4"},
		{"gpt-4", "gpt-4"},
		{"attacker-1", otherLabel},
		{"attacker-2", otherLabel},
		{"", otherLabel},
	}
	for _, tt := range tests {
		if got := ls.value(tt.in); got != tt.want {
			t.Errorf("value(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if len(ls.seen) != 2 {
		t.Errorf("label set grew to %d values", len(ls.seen))
	}
}

func TestProviderLabels_UnknownProviderIsOther(t *testing.T) {
	for _, p := range knownProviders {
		if got := providerLabels.value(p); got != p {
			t.Errorf("known provider %q mapped to %q", p, got)
		}
	}
	if got := providerLabels.value("acme"); got != otherLabel {
		t.Errorf("unknown provider mapped to %q", got)
	}
}
