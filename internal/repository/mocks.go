package repository

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
)

type MockUsageRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.UsageRecord // key: record ID
	order   []string

	// Err, when set, is returned from every method.
	Err error
}

func NewMockUsageRepository() *MockUsageRepository {
	return &MockUsageRepository{
		records: make(map[string]*domain.UsageRecord),
	}
}

func (m *MockUsageRepository) Create(ctx context.Context, rec *domain.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	id := rec.ID.String()
	if _, exists := m.records[id]; exists {
		return domain.ErrDuplicateUsage
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	cp := *rec
	m.records[id] = &cp
	m.order = append(m.order, id)
	return nil
}

func (m *MockUsageRepository) CountByCategory(ctx context.Context, since time.Time) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	counts := make(map[string]int)
	for _, rec := range m.records {
		if !rec.CreatedAt.Before(since) {
			counts[rec.Category]++
		}
	}
	return counts, nil
}

func (m *MockUsageRepository) Records() []domain.UsageRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.UsageRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.records[id])
	}
	return out
}

var _ UsageRepository = (*MockUsageRepository)(nil)
