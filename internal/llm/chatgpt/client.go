// Package chatgpt talks to an OpenAI-compatible chat-completions endpoint and
// translates every failure into a domain.CompletionError.
package chatgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
	"github.com/kitbuilder587/chatgpt-relay/internal/llm"
)

const (
	MsgMissingKey     = "ChatGPT API Key is not configured."
	MsgMissingURL     = "ChatGPT API URL is not configured."
	MsgNoContent      = "No valid response content received from ChatGPT API."
	MsgUnparseable    = "Could not parse ChatGPT response content."
	MsgUpstreamFailed = "Error communicating with ChatGPT API."
	MsgNoResponse     = "No response received from ChatGPT API. Check network or API status."
	MsgUnexpected     = "An unexpected error occurred while contacting ChatGPT API."
)

// CredentialsProvider is consulted on every call; implementations must not
// cache a missing key.
type CredentialsProvider interface {
	Credentials() domain.APICredentials
}

type StaticCredentials domain.APICredentials

func (s StaticCredentials) Credentials() domain.APICredentials {
	return domain.APICredentials(s)
}

type Config struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type Client struct {
	creds     CredentialsProvider
	model     string
	maxTokens int
	client    *http.Client
	logger    *zap.Logger
}

func New(cfg Config, creds CredentialsProvider, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 150
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		creds:     creds,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	creds := c.creds.Credentials()
	if !creds.HasKey() {
		return "", c.fail(domain.CategoryConfiguration, MsgMissingKey, 0, nil)
	}
	if !creds.HasURL() {
		return "", c.fail(domain.CategoryConfiguration, MsgMissingURL, 0, nil)
	}

	httpReq, err := c.newRequest(ctx, creds, prompt)
	if err != nil {
		return "", c.internal(err)
	}

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		if errors.Is(err, llm.ErrNoResponse) || errors.Is(err, llm.ErrReadBody) {
			return "", c.fail(domain.CategoryNetworkUnreachable, MsgNoResponse, 0, err)
		}
		return "", c.internal(err)
	}

	if statusCode < 200 || statusCode > 299 {
		msg := llm.ExtractErrorMessage(respBody)
		if msg == "" {
			msg = MsgUpstreamFailed
		}
		c.logger.Debug("chatgpt error body",
			zap.Int("status", statusCode),
			zap.ByteString("body", respBody),
		)
		return "", c.fail(domain.CategoryUpstream, msg, statusCode, nil)
	}

	text, legacy, err := llm.ExtractContent(respBody)
	switch {
	case errors.Is(err, llm.ErrNoChoices):
		return "", c.fail(domain.CategoryUpstreamMalformed, MsgNoContent, 0, err)
	case errors.Is(err, llm.ErrNoContent):
		return "", c.fail(domain.CategoryUpstreamMalformed, MsgUnparseable, 0, err)
	case err != nil:
		return "", c.internal(err)
	}

	if legacy {
		c.logger.Warn("received response in legacy text format",
			zap.String("model", c.model),
		)
	}

	return text, nil
}

func (c *Client) newRequest(ctx context.Context, creds domain.APICredentials, prompt string) (*http.Request, error) {
	body, err := json.Marshal(llm.NewChatRequest(c.model, prompt, c.maxTokens))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if s := httpReq.URL.Scheme; (s != "http" && s != "https") || httpReq.URL.Host == "" {
		return nil, fmt.Errorf("unsupported ChatGPT API URL %q", creds.APIURL)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)

	return httpReq, nil
}

func (c *Client) internal(err error) error {
	msg := err.Error()
	if msg == "" {
		msg = MsgUnexpected
	}
	return c.fail(domain.CategoryInternal, msg, 0, err)
}

func (c *Client) fail(category domain.ErrorCategory, msg string, status int, cause error) error {
	fields := []zap.Field{
		zap.String("category", category.String()),
		zap.String("message", msg),
	}
	if status != 0 {
		fields = append(fields, zap.Int("status", status))
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	c.logger.Error("chatgpt request failed", fields...)

	return domain.NewCompletionError(category, msg, status, cause)
}

var _ llm.Client = (*Client)(nil)
