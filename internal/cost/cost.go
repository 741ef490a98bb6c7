// Package cost estimates the USD cost of logged LLM calls from token usage.
package cost

import (
	"sort"
	"strings"
	"sync"

	"llmmonitor/internal/core"
	"llmmonitor/internal/util"
)

// Pricing is USD per 1K tokens.
type Pricing struct {
	Prompt     float64 `json:"prompt"`
	Completion float64 `json:"completion"`
}

var defaultPricing = map[string]map[string]Pricing{
	core.ProviderOpenAI: {
		"gpt-4":               {Prompt: 0.03, Completion: 0.06},
		"gpt-4-32k":           {Prompt: 0.06, Completion: 0.12},
		"gpt-4-turbo":         {Prompt: 0.01, Completion: 0.03},
		"gpt-4-turbo-preview": {Prompt: 0.01, Completion: 0.03},
		"gpt-3.5-turbo":       {Prompt: 0.0015, Completion: 0.002},
		"gpt-3.5-turbo-16k":   {Prompt: 0.003, Completion: 0.004},
		"text-davinci-003":    {Prompt: 0.02, Completion: 0.02},
		"text-curie-001":      {Prompt: 0.002, Completion: 0.002},
		"text-babbage-001":    {Prompt: 0.0005, Completion: 0.0005},
		"text-ada-001":        {Prompt: 0.0004, Completion: 0.0004},
	},
	core.ProviderOpenRouter: {
		"openai/gpt-4":                  {Prompt: 0.03, Completion: 0.06},
		"openai/gpt-3.5-turbo":          {Prompt: 0.0015, Completion: 0.002},
		"anthropic/claude-2":            {Prompt: 0.008, Completion: 0.024},
		"meta-llama/llama-2-70b-chat":   {Prompt: 0.0007, Completion: 0.0009},
		"mistralai/mistral-7b-instruct": {Prompt: 0.0002, Completion: 0.0002},
	},
	core.ProviderMistral: {
		"mistral-tiny":   {Prompt: 0.00025, Completion: 0.00025},
		"mistral-small":  {Prompt: 0.002, Completion: 0.006},
		"mistral-medium": {Prompt: 0.0027, Completion: 0.0081},
		"mistral-large":  {Prompt: 0.008, Completion: 0.024},
	},
	// Local models cost nothing.
	core.ProviderOllama: {
		"default": {},
	},
}

// Estimator looks up model pricing and computes call costs.
type Estimator struct {
	mu      sync.RWMutex
	pricing map[string]map[string]Pricing
}

// NewEstimator returns an estimator seeded with the built-in pricing table.
func NewEstimator() *Estimator {
	pricing := make(map[string]map[string]Pricing, len(defaultPricing))
	for provider, models := range defaultPricing {
		copied := make(map[string]Pricing, len(models))
		for model, p := range models {
			copied[model] = p
		}
		pricing[provider] = copied
	}
	return &Estimator{pricing: pricing}
}

// GetPricing finds pricing for provider/model. An exact match wins; otherwise
// the longest model key that contains, or is contained in, the model name.
// Unknown models are free.
func (e *Estimator) GetPricing(provider, model string) Pricing {
	e.mu.RLock()
	defer e.mu.RUnlock()

	models, ok := e.pricing[strings.ToLower(provider)]
	if !ok {
		return Pricing{}
	}
	if p, ok := models[model]; ok {
		return p
	}

	lowered := strings.ToLower(model)
	if lowered == "" {
		return Pricing{}
	}

	keys := make([]string, 0, len(models))
	for key := range models {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		k := strings.ToLower(key)
		if strings.Contains(lowered, k) || strings.Contains(k, lowered) {
			return models[key]
		}
	}
	return Pricing{}
}

// SetPricing overrides pricing for one model.
func (e *Estimator) SetPricing(provider, model string, p Pricing) {
	e.mu.Lock()
	defer e.mu.Unlock()

	provider = strings.ToLower(provider)
	if e.pricing[provider] == nil {
		e.pricing[provider] = make(map[string]Pricing)
	}
	e.pricing[provider][model] = p
}

// Calculate returns the cost breakdown rounded to six decimals.
func (e *Estimator) Calculate(provider, model string, promptTokens, completionTokens int) core.Cost {
	p := e.GetPricing(provider, model)

	promptCost := float64(max(promptTokens, 0)) / 1000 * p.Prompt
	completionCost := float64(max(completionTokens, 0)) / 1000 * p.Completion

	return core.Cost{
		PromptCost:     util.RoundTo(promptCost, 6),
		CompletionCost: util.RoundTo(completionCost, 6),
		TotalCost:      util.RoundTo(promptCost+completionCost, 6),
		Currency:       "USD",
	}
}

// ForRecord computes the cost of a log record from its token usage.
func (e *Estimator) ForRecord(record *core.LogRecord) core.Cost {
	if record == nil || record.TokenUsage == nil {
		return e.Calculate("", "", 0, 0)
	}
	return e.Calculate(record.Provider, record.Model, record.TokenUsage.PromptTokens, record.TokenUsage.CompletionTokens)
}
