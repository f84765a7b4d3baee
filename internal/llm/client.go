package llm

import (
	"context"
	"errors"
)

var (
	ErrNoResponse = errors.New("no response received")
	ErrReadBody   = errors.New("response body interrupted")
	ErrNoChoices  = errors.New("no choices in response")
	ErrNoContent  = errors.New("no content in first choice")
)

type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
