package llm

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewChatRequest(model, prompt string, maxTokens int) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	}
}

// ExtractContent pulls the completion text out of a chat-completions body.
// legacy is true when the text came from the old completions "text" field.
func ExtractContent(body []byte) (text string, legacy bool, err error) {
	if !gjson.ValidBytes(body) {
		return "", false, ErrNoChoices
	}

	choices := gjson.GetBytes(body, "choices")
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return "", false, ErrNoChoices
	}

	first := choices.Array()[0]
	if content := first.Get("message.content"); content.Type == gjson.String && content.Str != "" {
		return strings.TrimSpace(content.Str), false, nil
	}
	if old := first.Get("text"); old.Type == gjson.String && old.Str != "" {
		return strings.TrimSpace(old.Str), true, nil
	}

	return "", false, ErrNoContent
}

// ExtractErrorMessage returns error.message from a JSON error body, the body
// itself when it is plain text or a JSON string, or "" when neither applies.
func ExtractErrorMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	if !gjson.ValidBytes(body) {
		return string(body)
	}

	parsed := gjson.ParseBytes(body)
	if msg := parsed.Get("error.message"); msg.Type == gjson.String && msg.Str != "" {
		return msg.Str
	}
	if parsed.Type == gjson.String && parsed.Str != "" {
		return parsed.Str
	}
	return ""
}

// DoRequest sends req and reads the whole body. A failure before the headers
// wraps ErrNoResponse; a failure while reading the body wraps ErrReadBody.
func DoRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", ErrReadBody, err)
	}

	return body, resp.StatusCode, nil
}
