package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCompletionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CompletionRequest
		wantErr error
	}{
		{"ok", CompletionRequest{Prompt: "What is Go?"}, nil},
		{"empty", CompletionRequest{Prompt: ""}, ErrEmptyPrompt},
		{"whitespace is still a prompt", CompletionRequest{Prompt: "   "}, nil},
		{"newlines", CompletionRequest{Prompt: "Hello\nWorld"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CompletionRequest.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompletionError_Is(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     error
	}{
		{CategoryConfiguration, ErrConfiguration},
		{CategoryUpstream, ErrUpstream},
		{CategoryNetworkUnreachable, ErrNetworkUnreachable},
		{CategoryUpstreamMalformed, ErrUpstreamMalformed},
		{CategoryInternal, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			err := NewCompletionError(tt.category, "boom", 0, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", tt.category, tt.want)
			}

			wrapped := fmt.Errorf("complete: %w", err)
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("wrapped error lost category %v", tt.category)
			}
			if errors.Is(err, ErrEmptyPrompt) {
				t.Error("category error should not match ErrEmptyPrompt")
			}
		})
	}
}

func TestCompletionError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewCompletionError(CategoryNetworkUnreachable, "no response", 0, cause)

	if err.Error() != "no response" {
		t.Errorf("Error() = %q, want %q", err.Error(), "no response")
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap() should expose the cause")
	}
}

func TestCompletionError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		category ErrorCategory
		status   int
		want     int
	}{
		{"configuration", CategoryConfiguration, 0, http.StatusInternalServerError},
		{"internal", CategoryInternal, 0, http.StatusInternalServerError},
		{"malformed", CategoryUpstreamMalformed, 0, http.StatusInternalServerError},
		{"network", CategoryNetworkUnreachable, 0, http.StatusBadGateway},
		{"upstream 401", CategoryUpstream, http.StatusUnauthorized, http.StatusUnauthorized},
		{"upstream 429", CategoryUpstream, http.StatusTooManyRequests, http.StatusTooManyRequests},
		{"upstream 503", CategoryUpstream, http.StatusServiceUnavailable, http.StatusServiceUnavailable},
		{"upstream redirect", CategoryUpstream, http.StatusFound, http.StatusBadGateway},
		{"upstream zero", CategoryUpstream, 0, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCompletionError(tt.category, "msg", tt.status, nil)
			if got := err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewCompletionError(CategoryUpstream, "x", 401, nil))
	if got := CategoryOf(err); got != CategoryUpstream {
		t.Errorf("CategoryOf() = %v, want %v", got, CategoryUpstream)
	}
	if got := CategoryOf(errors.New("plain")); got != CategoryInternal {
		t.Errorf("CategoryOf(plain) = %v, want %v", got, CategoryInternal)
	}
}
