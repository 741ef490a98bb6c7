package openai

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingAPIKey  = errors.New("OpenAI API key is required")
	ErrInvalidRequest = errors.New("invalid request")
)

// APIError is a provider error with an HTTP status. Body, when set, is
// logged as the response body.
type APIError struct {
	StatusCode int
	Message    string
	Body       any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// statusFromError maps an error to the status code reported to the monitor.
func statusFromError(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// errorBody is the response body logged for a failed call.
func errorBody(err error) any {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Body != nil {
		return apiErr.Body
	}
	return map[string]any{"error": err.Error()}
}
