package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrRequestFailed   = errors.New("request failed")
	ErrEmptyResponse   = errors.New("empty response")
	ErrRateLimit       = errors.New("rate limit exceeded")
	ErrMalformedOutput = errors.New("model output is not a JSON object")
)

// Client answers a question with the single JSON object produced by the model.
type Client interface {
	Ask(ctx context.Context, question string) (json.RawMessage, error)
}
