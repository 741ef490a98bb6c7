package openai

import (
	"context"
	"fmt"
	"strings"

	"llmmonitor/internal/core"
	"llmmonitor/internal/util"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateRequest(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// ChatCompletionsService implements chat.completions.
type ChatCompletionsService struct {
	client *Client
}

// Create runs a chat completion and reports it. Monitor failures never
// reach the caller; backend failures are reported and then returned.
func (s *ChatCompletionsService) Create(ctx context.Context, req core.ChatCompletionRequest) (*core.ChatCompletionResponse, error) {
	c := s.client
	start := c.now()

	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	prompt, systemMessage := extractPrompts(req.Messages)
	info := callInfo{
		endpoint:      core.EndpointChatCompletions,
		model:         req.Model,
		requestBody:   req.RequestBody(),
		prompt:        prompt,
		systemMessage: systemMessage,
		start:         start,
	}

	resp, err := c.backend.ChatCompletion(ctx, &req)
	if err != nil {
		c.reportFailure(ctx, info, err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	c.reportSuccess(ctx, info, resp, resp.CompletionText(), resp.Usage)
	return resp, nil
}

// extractPrompts joins user and system message text, one line per message.
func extractPrompts(messages []core.ChatMessage) (prompt, systemMessage string) {
	var user, system strings.Builder
	for _, m := range messages {
		switch m.Role {
		case core.RoleUser:
			user.WriteString(util.ExtractTextContent(m.Content))
			user.WriteByte('\n')
		case core.RoleSystem:
			system.WriteString(util.ExtractTextContent(m.Content))
			system.WriteByte('\n')
		}
	}
	return strings.TrimSpace(user.String()), strings.TrimSpace(system.String())
}
