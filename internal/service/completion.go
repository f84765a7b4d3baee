package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
	"github.com/kitbuilder587/chatgpt-relay/internal/llm"
	"github.com/kitbuilder587/chatgpt-relay/internal/metrics"
	"github.com/kitbuilder587/chatgpt-relay/internal/repository"
	"github.com/kitbuilder587/chatgpt-relay/internal/requestid"
)

type CompletionService interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

type completionService struct {
	llm     llm.Client
	usage   repository.UsageRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCompletionService wires the completion pipeline. usage and m may be nil.
func NewCompletionService(client llm.Client, usage repository.UsageRepository, m *metrics.Metrics, logger *zap.Logger) CompletionService {
	return &completionService{
		llm:     client,
		usage:   usage,
		metrics: m,
		logger:  logger,
	}
}

func (s *completionService) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := s.llm.Complete(ctx, req.Prompt)
	elapsed := time.Since(start)

	category := domain.UsageCategorySuccess
	if err != nil {
		category = domain.CategoryOf(err).String()
	}

	if s.metrics != nil {
		s.metrics.RecordUpstream(s.llm.Model(), category, elapsed)
	}

	s.recordUsage(ctx, err, elapsed)

	if err != nil {
		return "", err
	}

	s.logger.Debug("completion succeeded",
		zap.String("request_id", requestid.From(ctx)),
		zap.Duration("duration", elapsed),
		zap.Int("prompt_len", len(req.Prompt)),
	)

	return text, nil
}

// recordUsage is best effort: a storage failure never changes the outcome.
func (s *completionService) recordUsage(ctx context.Context, callErr error, elapsed time.Duration) {
	if s.usage == nil {
		return
	}

	rec := domain.NewUsageRecord(requestid.From(ctx), s.llm.Model(), callErr, elapsed)

	// the caller may have gone away; the record is still written
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.usage.Create(writeCtx, rec); err != nil {
		s.logger.Warn("failed to record usage",
			zap.Error(err),
			zap.String("request_id", rec.RequestID),
		)
		if s.metrics != nil {
			s.metrics.RecordUsageWriteFailure()
		}
	}
}
