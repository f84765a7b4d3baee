// Package requestid carries the per-request correlation ID through contexts.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

const Header = "X-Request-ID"

type ctxKey struct{}

func New() string {
	return uuid.NewString()
}

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the request ID stored in ctx, or "" if there is none.
func From(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
