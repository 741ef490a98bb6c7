package core

import (
	"testing"

	"github.com/bytedance/sonic"
)

func TestFlexibleStatus_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      FlexibleStatus
		wantError bool
	}{
		{"number", `200`, 200, false},
		{"error number", `503`, 503, false},
		{"numeric string", `"429"`, 429, false},
		{"success string", `"success"`, 200, false},
		{"error string", `"error"`, 500, false},
		{"mixed case", `"Success"`, 200, false},
		{"timeout string", `"timeout"`, 408, false},
		{"rate limited string", `"rate_limited"`, 429, false},
		{"null leaves unset", `null`, 0, false},
		{"empty string", `""`, 0, true},
		{"blank string", `"  "`, 0, true},
		{"garbage string", `"teapot"`, 0, true},
		{"object", `{"code":200}`, 0, true},
		{"bool", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexibleStatus
			err := sonic.Unmarshal([]byte(tt.input), &got)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLogRecord_Succeeded(t *testing.T) {
	tests := []struct {
		status FlexibleStatus
		want   bool
	}{
		{200, true},
		{201, true},
		{299, true},
		{400, false},
		{500, false},
		{0, false},
	}
	for _, tt := range tests {
		r := LogRecord{Status: tt.status}
		if got := r.Succeeded(); got != tt.want {
			t.Errorf("Succeeded() for %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestLogRecord_StatusInStruct(t *testing.T) {
	var r LogRecord
	if err := sonic.Unmarshal([]byte(`{"provider":"openai","status":"success","latency":12.5}`), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if r.Status != 200 || r.Latency != 12.5 || r.Provider != ProviderOpenAI {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestChatCompletionRequest_RequestBody(t *testing.T) {
	temp := 0.7
	maxTokens := 150
	req := ChatCompletionRequest{
		Model:       "gpt-4",
		Messages:    []ChatMessage{{Role: RoleUser, Content: "hi"}},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Extra:       map[string]any{"top_p": 0.9, "stream": true},
	}

	body := req.RequestBody()
	if body["model"] != "gpt-4" {
		t.Errorf("model = %v", body["model"])
	}
	if body["temperature"] != 0.7 {
		t.Errorf("temperature = %v", body["temperature"])
	}
	if body["max_tokens"] != 150 {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	if body["top_p"] != 0.9 {
		t.Errorf("extra top_p not merged: %v", body["top_p"])
	}
	if body["stream"] != true {
		t.Error("extras should override named fields")
	}
}

func TestChatCompletionRequest_RequestBodyDefaults(t *testing.T) {
	req := ChatCompletionRequest{Model: "gpt-4"}
	body := req.RequestBody()
	if body["temperature"] != DefaultTemperature {
		t.Errorf("temperature default = %v, want %v", body["temperature"], DefaultTemperature)
	}
	if _, ok := body["max_tokens"]; ok {
		t.Error("max_tokens should be omitted when unset")
	}
	if body["stream"] != false {
		t.Errorf("stream = %v", body["stream"])
	}
}

func TestChatCompletionResponse_CompletionText(t *testing.T) {
	var nilResp *ChatCompletionResponse
	if nilResp.CompletionText() != "" {
		t.Error("nil response should yield empty text")
	}
	resp := &ChatCompletionResponse{Choices: []ChatCompletionChoice{{Message: ChatMessage{Role: RoleAssistant, Content: "ok"}}}}
	if resp.CompletionText() != "ok" {
		t.Errorf("CompletionText() = %q", resp.CompletionText())
	}
}
