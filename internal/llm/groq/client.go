package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kitbuilder587/guru-api/internal/llm"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"
)

type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration
}

// Client talks to Groq, or any other OpenAI-compatible chat completion API,
// in JSON mode.
type Client struct {
	api    *openai.Client
	model  string
	system string
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:    openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		system: cfg.SystemPrompt,
		logger: logger,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Ask(ctx context.Context, question string) (json.RawMessage, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.system},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, c.classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.CompletionError{Kind: llm.KindEmpty, Err: llm.ErrEmptyResponse}
	}

	return llm.DecodeObject(resp.Choices[0].Message.Content)
}

func (c *Client) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		c.logger.Error("groq request failed",
			zap.Int("status", apiErr.HTTPStatusCode),
			zap.String("message", apiErr.Message),
			zap.Any("code", apiErr.Code),
		)
		return llm.StatusError(apiErr.HTTPStatusCode, apiErr)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		c.logger.Error("groq request failed",
			zap.Int("status", reqErr.HTTPStatusCode),
			zap.Error(reqErr.Err),
		)
		return llm.StatusError(reqErr.HTTPStatusCode, reqErr)
	}

	return &llm.CompletionError{
		Kind: llm.KindTransport,
		Err:  fmt.Errorf("%w: %w", llm.ErrRequestFailed, err),
	}
}

var _ llm.Client = (*Client)(nil)
