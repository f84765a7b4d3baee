package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UsageRecord describes the outcome of one upstream call. Prompt and
// completion text are never stored.
type UsageRecord struct {
	ID         uuid.UUID
	RequestID  string
	Model      string
	Category   string
	HTTPStatus int
	Duration   time.Duration
	CreatedAt  time.Time
}

const UsageCategorySuccess = "success"

func NewUsageRecord(requestID, model string, err error, duration time.Duration) *UsageRecord {
	rec := &UsageRecord{
		ID:        uuid.New(),
		RequestID: requestID,
		Model:     model,
		Category:  UsageCategorySuccess,
		Duration:  duration,
		CreatedAt: time.Now(),
	}
	if err != nil {
		rec.Category = CategoryOf(err).String()
		var ce *CompletionError
		if errors.As(err, &ce) && ce.Category == CategoryUpstream {
			rec.HTTPStatus = ce.Status
		}
	}
	return rec
}
