package openai

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"llmmonitor/internal/core"
	"llmmonitor/internal/util"
)

// Backend produces provider responses for the wrapper.
type Backend interface {
	ChatCompletion(ctx context.Context, req *core.ChatCompletionRequest) (*core.ChatCompletionResponse, error)
	Embedding(ctx context.Context, model string, inputs []string) (*core.EmbeddingResponse, error)
}

// SimulatedBackend fabricates canned responses after a fixed delay.
type SimulatedBackend struct {
	latency time.Duration
	now     func() time.Time
}

func NewSimulatedBackend(latency time.Duration) *SimulatedBackend {
	return &SimulatedBackend{latency: latency, now: time.Now}
}

func (b *SimulatedBackend) ChatCompletion(ctx context.Context, req *core.ChatCompletionRequest) (*core.ChatCompletionResponse, error) {
	if err := sleep(ctx, b.latency); err != nil {
		return nil, err
	}

	prompt, _ := extractPrompts(req.Messages)
	completion := core.SimulatedCompletionPrefix + util.TruncateRunes(prompt, core.PromptPreviewRunes) + "..."

	usage := estimateUsage(prompt, completion)
	finishReason := core.FinishReasonStop
	if req.MaxTokens != nil && usage.CompletionTokens > *req.MaxTokens {
		finishReason = core.FinishReasonLength
	}

	return &core.ChatCompletionResponse{
		ID:      util.GenerateID(core.ResponseIDPrefix),
		Object:  core.ChatCompletionObjectType,
		Created: b.now().Unix(),
		Model:   req.Model,
		Choices: []core.ChatCompletionChoice{
			{
				Index:        0,
				Message:      core.ChatMessage{Role: core.RoleAssistant, Content: completion},
				FinishReason: finishReason,
			},
		},
		Usage: usage,
	}, nil
}

func (b *SimulatedBackend) Embedding(ctx context.Context, model string, inputs []string) (*core.EmbeddingResponse, error) {
	if err := sleep(ctx, b.latency); err != nil {
		return nil, err
	}

	resp := &core.EmbeddingResponse{
		Object: core.ListObjectType,
		Model:  model,
		Data:   make([]core.Embedding, len(inputs)),
	}
	tokens := 0
	for i, input := range inputs {
		resp.Data[i] = core.Embedding{
			Object:    core.EmbeddingObjectType,
			Index:     i,
			Embedding: pseudoEmbedding(input, core.EmbeddingDimensions),
		}
		tokens += util.EstimateTokenCount(input)
	}
	resp.Usage = core.Usage{PromptTokens: tokens, TotalTokens: tokens}
	return resp, nil
}

// estimateUsage counts roughly four characters per token. Total is computed
// over the combined text, so it can exceed prompt+completion by one.
func estimateUsage(prompt, completion string) core.Usage {
	return core.Usage{
		PromptTokens:     util.EstimateTokenCount(prompt),
		CompletionTokens: util.EstimateTokenCount(completion),
		TotalTokens:      util.EstimateTokenCount(prompt + completion),
	}
}

// pseudoEmbedding derives a unit vector from the text so equal inputs embed equally.
func pseudoEmbedding(text string, dims int) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	vec := make([]float64, dims)
	var norm float64
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
