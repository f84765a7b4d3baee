package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/chatgpt-relay/internal/llm"
)

type Client struct {
	mu sync.Mutex

	Response  string
	Error     error
	Delay     time.Duration
	ModelName string

	CallCount  int
	LastPrompt string
}

func New() *Client {
	return &Client{
		Response:  "This is a mock completion.",
		ModelName: "mock-model",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
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

func (c *Client) Model() string {
	return c.ModelName
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastPrompt = prompt
	resp, err, delay := c.Response, c.Error, c.Delay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}

	return resp, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

var _ llm.Client = (*Client)(nil)
