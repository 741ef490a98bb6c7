package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// LogRecord is the monitoring record posted for every wrapped call.
type LogRecord struct {
	RequestID     string         `json:"requestId,omitempty"`
	Timestamp     string         `json:"timestamp"`
	Provider      string         `json:"provider" validate:"required,oneof=openai openrouter mistral ollama"`
	Model         string         `json:"model" validate:"required"`
	Endpoint      string         `json:"endpoint"`
	Status        FlexibleStatus `json:"status" validate:"required,min=100,max=599"`
	Latency       float64        `json:"latency" validate:"gte=0"`
	RequestBody   any            `json:"requestBody"`
	ResponseBody  any            `json:"responseBody"`
	Prompt        string         `json:"prompt" validate:"required"`
	SystemMessage string         `json:"systemMessage"`
	Completion    string         `json:"completion,omitempty"`
	TokenUsage    *Usage         `json:"tokenUsage,omitempty"`
	Source        string         `json:"source"`
	Error         string         `json:"error,omitempty"`
	Cost          *Cost          `json:"cost,omitempty"`
}

// Succeeded reports whether the record describes a 2xx call.
func (r *LogRecord) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300
}

// ReceivedAt parses the record timestamp, falling back to now.
func (r *LogRecord) ReceivedAt() time.Time {
	if t, err := time.Parse(time.RFC3339Nano, r.Timestamp); err == nil {
		return t
	}
	return time.Now()
}

// FlexibleStatus is an HTTP status code that also accepts the string forms
// some producers send ("success", "rate_limited", "200").
type FlexibleStatus int

var namedStatuses = map[string]FlexibleStatus{
	StatusSuccess:     200,
	StatusError:       500,
	StatusTimeout:     408,
	StatusRateLimited: 429,
}

// UnmarshalJSON accepts a number, a numeric string or one of the named
// statuses. null leaves the status unset; an empty string is rejected.
func (s *FlexibleStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var n int
	if err := sonic.Unmarshal(data, &n); err == nil {
		*s = FlexibleStatus(n)
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid status format")
	}

	str = strings.TrimSpace(str)
	if str == "" {
		return fmt.Errorf("status must not be empty")
	}
	if named, ok := namedStatuses[strings.ToLower(str)]; ok {
		*s = named
		return nil
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return fmt.Errorf("invalid status value %q", str)
	}
	*s = FlexibleStatus(n)
	return nil
}

// Cost is the estimated USD cost of a logged call.
type Cost struct {
	PromptCost     float64 `json:"promptCost"`
	CompletionCost float64 `json:"completionCost"`
	TotalCost      float64 `json:"totalCost"`
	Currency       string  `json:"currency"`
}

// RequestStats holds aggregated request statistics for monitoring.
type RequestStats struct {
	TotalRequests      int64           `json:"total_requests"`
	SuccessfulRequests int64           `json:"successful_requests"`
	FailedRequests     int64           `json:"failed_requests"`
	TotalLatency       float64         `json:"total_latency"`
	LastRequestTime    time.Time       `json:"last_request_time"`
	RequestHistory     []RequestRecord `json:"request_history"`
}

// RequestRecord represents a single logged call's metadata for history tracking.
type RequestRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Latency   float64   `json:"latency"`
	Model     string    `json:"model"`
	Provider  string    `json:"provider"`
	Cost      float64   `json:"cost"`
}

// PeriodStats holds computed statistics for a time period.
type PeriodStats struct {
	Requests    int64   `json:"requests"`
	SuccessRate float64 `json:"successRate"`
	AvgLatency  float64 `json:"avgLatency"`
	TotalCost   float64 `json:"totalCost"`
	QPS         float64 `json:"qps"`
}
