package domain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CompletionRequest struct {
	Prompt string `json:"prompt" form:"prompt" validate:"required"`
}

func (r *CompletionRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ErrEmptyPrompt
	}
	return fmt.Errorf("validate request: %w", err)
}

type ErrorCategory string

const (
	CategoryConfiguration      ErrorCategory = "configuration"
	CategoryUpstream           ErrorCategory = "upstream"
	CategoryNetworkUnreachable ErrorCategory = "network_unreachable"
	CategoryUpstreamMalformed  ErrorCategory = "upstream_malformed"
	CategoryInternal           ErrorCategory = "internal"
)

func (c ErrorCategory) String() string {
	return string(c)
}

func (c ErrorCategory) sentinel() error {
	switch c {
	case CategoryConfiguration:
		return ErrConfiguration
	case CategoryUpstream:
		return ErrUpstream
	case CategoryNetworkUnreachable:
		return ErrNetworkUnreachable
	case CategoryUpstreamMalformed:
		return ErrUpstreamMalformed
	default:
		return ErrInternal
	}
}

// CompletionError is the failure side of a completion call. Message is what
// the caller gets to see; Status is set only for CategoryUpstream.
type CompletionError struct {
	Category ErrorCategory
	Message  string
	Status   int
	Err      error
}

func NewCompletionError(category ErrorCategory, message string, status int, err error) *CompletionError {
	return &CompletionError{
		Category: category,
		Message:  message,
		Status:   status,
		Err:      err,
	}
}

func (e *CompletionError) Error() string {
	return e.Message
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a CompletionError against its category sentinel.
func (e *CompletionError) Is(target error) bool {
	return target == e.Category.sentinel()
}

func (e *CompletionError) HTTPStatus() int {
	switch e.Category {
	case CategoryUpstream:
		if e.Status >= 400 && e.Status <= 599 {
			return e.Status
		}
		return http.StatusBadGateway
	case CategoryNetworkUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CategoryOf returns the category of err, or CategoryInternal when err is not
// a CompletionError.
func CategoryOf(err error) ErrorCategory {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryInternal
}
