package cost

import (
	"testing"

	"llmmonitor/internal/core"
)

func TestGetPricing(t *testing.T) {
	e := NewEstimator()
	tests := []struct {
		name     string
		provider string
		model    string
		want     Pricing
	}{
		{"exact", core.ProviderOpenAI, "gpt-4", Pricing{0.03, 0.06}},
		{"exact longer key", core.ProviderOpenAI, "gpt-4-turbo", Pricing{0.01, 0.03}},
		{"dated variant picks longest key", core.ProviderOpenAI, "gpt-4-turbo-2024-04-09", Pricing{0.01, 0.03}},
		{"case insensitive provider", "OpenAI", "gpt-3.5-turbo", Pricing{0.0015, 0.002}},
		{"openrouter", core.ProviderOpenRouter, "openai/gpt-4", Pricing{0.03, 0.06}},
		{"openrouter claude", core.ProviderOpenRouter, "anthropic/claude-2", Pricing{0.008, 0.024}},
		{"openrouter llama", core.ProviderOpenRouter, "meta-llama/llama-2-70b-chat", Pricing{0.0007, 0.0009}},
		{"openrouter mistral", core.ProviderOpenRouter, "mistralai/mistral-7b-instruct", Pricing{0.0002, 0.0002}},
		{"mistral tiny", core.ProviderMistral, "mistral-tiny", Pricing{0.00025, 0.00025}},
		{"mistral small", core.ProviderMistral, "mistral-small", Pricing{0.002, 0.006}},
		{"mistral medium", core.ProviderMistral, "mistral-medium", Pricing{0.0027, 0.0081}},
		{"mistral large", core.ProviderMistral, "mistral-large", Pricing{0.008, 0.024}},
		{"mistral dated variant", core.ProviderMistral, "mistral-large-2402", Pricing{0.008, 0.024}},
		{"ollama default", core.ProviderOllama, "default", Pricing{}},
		{"ollama is free", core.ProviderOllama, "llama3", Pricing{}},
		{"unknown provider", "acme", "gpt-4", Pricing{}},
		{"unknown model", core.ProviderOpenAI, "mystery-model", Pricing{}},
		{"empty model", core.ProviderOpenAI, "", Pricing{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.GetPricing(tt.provider, tt.model); got != tt.want {
				t.Errorf("GetPricing(%q, %q) = %+v, want %+v", tt.provider, tt.model, got, tt.want)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	e := NewEstimator()
	c := e.Calculate(core.ProviderOpenAI, "gpt-4", 1000, 500)
	if c.PromptCost != 0.03 {
		t.Errorf("PromptCost = %v", c.PromptCost)
	}
	if c.CompletionCost != 0.03 {
		t.Errorf("CompletionCost = %v", c.CompletionCost)
	}
	if c.TotalCost != 0.06 {
		t.Errorf("TotalCost = %v", c.TotalCost)
	}
	if c.Currency != "USD" {
		t.Errorf("Currency = %q", c.Currency)
	}
}

func TestCalculate_FullTable(t *testing.T) {
	e := NewEstimator()
	tests := []struct {
		provider string
		model    string
		want     float64
	}{
		{core.ProviderOpenRouter, "anthropic/claude-2", 0.032},
		{core.ProviderMistral, "mistral-large", 0.032},
		{core.ProviderMistral, "mistral-tiny", 0.0005},
		{core.ProviderOllama, "llama3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.model, func(t *testing.T) {
			if got := e.Calculate(tt.provider, tt.model, 1000, 1000).TotalCost; got != tt.want {
				t.Errorf("TotalCost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculate_NegativeTokensClamp(t *testing.T) {
	c := NewEstimator().Calculate(core.ProviderOpenAI, "gpt-4", -10, -1)
	if c.TotalCost != 0 {
		t.Errorf("negative tokens should cost nothing, got %v", c.TotalCost)
	}
}

func TestSetPricing(t *testing.T) {
	e := NewEstimator()
	e.SetPricing("custom", "house-model", Pricing{Prompt: 1, Completion: 2})
	c := e.Calculate("custom", "house-model", 1000, 1000)
	if c.TotalCost != 3 {
		t.Errorf("TotalCost = %v", c.TotalCost)
	}

	if other := NewEstimator().GetPricing("custom", "house-model"); other != (Pricing{}) {
		t.Error("SetPricing must not leak into the shared default table")
	}
}

func TestForRecord(t *testing.T) {
	e := NewEstimator()
	if c := e.ForRecord(nil); c.TotalCost != 0 {
		t.Errorf("nil record cost = %v", c.TotalCost)
	}
	rec := &core.LogRecord{
		Provider:   core.ProviderOpenAI,
		Model:      "gpt-3.5-turbo",
		TokenUsage: &core.Usage{PromptTokens: 2000, CompletionTokens: 1000},
	}
	if c := e.ForRecord(rec); c.TotalCost != 0.005 {
		t.Errorf("TotalCost = %v", c.TotalCost)
	}
}
