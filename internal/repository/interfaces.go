package repository

import (
	"context"
	"time"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
)

// UsageRepository stores call-outcome metadata. Implementations never see
// prompt or completion text.
type UsageRepository interface {
	Create(ctx context.Context, rec *domain.UsageRecord) error
	CountByCategory(ctx context.Context, since time.Time) (map[string]int, error)
}
