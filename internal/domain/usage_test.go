package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewUsageRecord(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory string
		wantStatus   int
	}{
		{"success", nil, UsageCategorySuccess, 0},
		{"upstream keeps status", NewCompletionError(CategoryUpstream, "bad key", 401, nil), "upstream", 401},
		{"network", NewCompletionError(CategoryNetworkUnreachable, "no response", 0, nil), "network_unreachable", 0},
		{"plain error", errors.New("boom"), "internal", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewUsageRecord("req-1", "gpt-3.5-turbo", tt.err, 150*time.Millisecond)

			if rec.ID == uuid.Nil {
				t.Error("ID should be generated")
			}
			if rec.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", rec.Category, tt.wantCategory)
			}
			if rec.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", rec.HTTPStatus, tt.wantStatus)
			}
			if rec.RequestID != "req-1" || rec.Model != "gpt-3.5-turbo" {
				t.Errorf("unexpected record %+v", rec)
			}
		})
	}
}
