package openai

import (
	"context"

	"llmmonitor/internal/core"
)

// CompletionsService implements the legacy completions endpoint on top of chat.
type CompletionsService struct {
	client *Client
}

// Create sends the prompt as a single user message.
func (s *CompletionsService) Create(ctx context.Context, req core.CompletionRequest) (*core.ChatCompletionResponse, error) {
	return s.client.Chat.Completions.Create(ctx, core.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    []core.ChatMessage{{Role: core.RoleUser, Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}
