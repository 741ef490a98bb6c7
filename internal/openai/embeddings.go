package openai

import (
	"context"
	"fmt"

	"llmmonitor/internal/core"
)

// EmbeddingsService implements the embeddings endpoint.
type EmbeddingsService struct {
	client *Client
}

// Create embeds one or more inputs and reports the call.
func (s *EmbeddingsService) Create(ctx context.Context, req core.EmbeddingRequest) (*core.EmbeddingResponse, error) {
	c := s.client
	start := c.now()

	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	inputs, err := embeddingInputs(req.Input)
	if err != nil {
		return nil, err
	}

	info := callInfo{
		endpoint:    core.EndpointEmbeddings,
		model:       req.Model,
		requestBody: req,
		start:       start,
	}

	resp, err := c.backend.Embedding(ctx, req.Model, inputs)
	if err != nil {
		c.reportFailure(ctx, info, err)
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	c.reportSuccess(ctx, info, resp, "", resp.Usage)
	return resp, nil
}

func embeddingInputs(input any) ([]string, error) {
	switch v := input.(type) {
	case string:
		return []string{v}, nil
	case []string:
		if len(v) == 0 {
			break
		}
		return v, nil
	case []any:
		if len(v) == 0 {
			break
		}
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: input[%d] is %T, want string", ErrInvalidRequest, i, item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: input must be a string or a non-empty list of strings", ErrInvalidRequest)
}
