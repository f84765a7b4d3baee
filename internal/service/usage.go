package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/chatgpt-relay/internal/cache/memory"
	"github.com/kitbuilder587/chatgpt-relay/internal/repository"
)

type UsageSummary struct {
	Since  time.Time      `json:"since"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

type UsageService interface {
	Summary(ctx context.Context, window time.Duration) (*UsageSummary, error)
}

type usageService struct {
	repo   repository.UsageRepository
	logger *zap.Logger
}

func NewUsageService(repo repository.UsageRepository, logger *zap.Logger) UsageService {
	return &usageService{
		repo:   repo,
		logger: logger,
	}
}

func (s *usageService) Summary(ctx context.Context, window time.Duration) (*UsageSummary, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}
	since := time.Now().Add(-window).UTC()

	counts, err := s.repo.CountByCategory(ctx, since)
	if err != nil {
		s.logger.Error("failed to count usage", zap.Error(err))
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &UsageSummary{
		Since:  since,
		Total:  total,
		Counts: counts,
	}, nil
}

type cachedUsageService struct {
	next  UsageService
	cache *memory.Cache[*UsageSummary]
	ttl   time.Duration
}

// NewCachedUsageService serves repeated summaries for the same window from
// cache for ttl. Errors are not cached.
func NewCachedUsageService(next UsageService, cache *memory.Cache[*UsageSummary], ttl time.Duration) UsageService {
	return &cachedUsageService{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func (s *cachedUsageService) Summary(ctx context.Context, window time.Duration) (*UsageSummary, error) {
	key := window.String()
	if summary, ok := s.cache.Get(key); ok {
		return summary, nil
	}

	summary, err := s.next.Summary(ctx, window)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, summary, s.ttl)
	return summary, nil
}
