package mock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kitbuilder587/guru-api/internal/llm"
)

// Client - мок llm.Client, потокобезопасный (гоняем параллельные запросы в тестах)
type Client struct {
	mu sync.Mutex

	Response json.RawMessage
	Error    error
	Delay    time.Duration
	Panic    bool

	callCount    int
	lastQuestion string
}

func New() *Client {
	return &Client{
		Response: json.RawMessage(`{"data":{"question":"mock","purports":[],"practical_suggestions":[]}}`),
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = json.RawMessage(response)
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) WithPanic() *Client {
	c.Panic = true
	return c
}

func (c *Client) Ask(ctx context.Context, question string) (json.RawMessage, error) {
	c.mu.Lock()
	c.callCount++
	c.lastQuestion = question
	c.mu.Unlock()

	if c.Panic {
		panic("mock llm panic")
	}

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return nil, c.Error
	}

	return c.Response, nil
}

func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callCount
}

func (c *Client) LastQuestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastQuestion
}

func (c *Client) Reset() {
	c.mu.Lock()
	c.callCount = 0
	c.lastQuestion = ""
	c.mu.Unlock()
}

var _ llm.Client = (*Client)(nil)
