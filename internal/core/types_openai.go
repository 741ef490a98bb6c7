package core

// ChatMessage represents a single message in an OpenAI chat completion request.
type ChatMessage struct {
	Role    string `json:"role" validate:"required"`
	Content any    `json:"content"`
	Name    string `json:"name,omitempty"`
}

// ChatCompletionRequest is the OpenAI-compatible chat completion request payload.
// Extra carries provider parameters the wrapper does not model; they are merged
// into the logged request body last.
type ChatCompletionRequest struct {
	Model       string         `json:"model" validate:"required"`
	Messages    []ChatMessage  `json:"messages" validate:"required,min=1,dive"`
	Temperature *float64       `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int           `json:"max_tokens,omitempty" validate:"omitempty,gte=0"`
	Stream      bool           `json:"stream"`
	Extra       map[string]any `json:"-"`
}

// RequestBody returns the request payload exactly as it is reported to the monitor.
func (r *ChatCompletionRequest) RequestBody() map[string]any {
	temperature := DefaultTemperature
	if r.Temperature != nil {
		temperature = *r.Temperature
	}

	body := map[string]any{
		"model":       r.Model,
		"messages":    r.Messages,
		"temperature": temperature,
		"stream":      r.Stream,
	}
	if r.MaxTokens != nil {
		body["max_tokens"] = *r.MaxTokens
	}
	for k, v := range r.Extra {
		body[k] = v
	}
	return body
}

// ChatCompletionChoice represents a single choice in an OpenAI chat completion response.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage represents token usage statistics in OpenAI format.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the OpenAI-compatible non-streaming chat completion response.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   Usage                  `json:"usage"`
}

// CompletionText returns the content of the first choice, or "".
func (r *ChatCompletionResponse) CompletionText() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	if s, ok := r.Choices[0].Message.Content.(string); ok {
		return s
	}
	return ""
}

// CompletionRequest is the legacy text completion request.
type CompletionRequest struct {
	Model       string   `json:"model" validate:"required"`
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// EmbeddingRequest is the OpenAI-compatible embeddings request. Input is a
// string or a list of strings.
type EmbeddingRequest struct {
	Model string `json:"model" validate:"required"`
	Input any    `json:"input" validate:"required"`
}

// Embedding is a single vector in an embeddings response.
type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingResponse is the OpenAI-compatible embeddings response.
type EmbeddingResponse struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  Usage       `json:"usage"`
}
