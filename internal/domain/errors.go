package domain

import "errors"

var (
	ErrEmptyPrompt     = errors.New("prompt should not be empty")
	ErrPromptNotString = errors.New("prompt must be a string")
)

// Sentinels for each completion error category.
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrUpstream           = errors.New("upstream error")
	ErrNetworkUnreachable = errors.New("upstream unreachable")
	ErrUpstreamMalformed  = errors.New("malformed upstream response")
	ErrInternal           = errors.New("internal error")
)

var ErrDuplicateUsage = errors.New("usage record already exists")
