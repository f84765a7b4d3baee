package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
	"github.com/kitbuilder587/chatgpt-relay/internal/llm/mock"
	"github.com/kitbuilder587/chatgpt-relay/internal/metrics"
	"github.com/kitbuilder587/chatgpt-relay/internal/repository"
	"github.com/kitbuilder587/chatgpt-relay/internal/requestid"
)

func TestCompletionService_Complete(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name         string
		prompt       string
		llmErr       error
		wantErr      error
		wantCalls    int
		wantCategory string
	}{
		{
			name:         "success",
			prompt:       "hi",
			wantCalls:    1,
			wantCategory: domain.UsageCategorySuccess,
		},
		{
			name:      "empty prompt rejected before llm",
			prompt:    "",
			wantErr:   domain.ErrEmptyPrompt,
			wantCalls: 0,
		},
		{
			name:         "upstream error passed through",
			prompt:       "hi",
			llmErr:       domain.NewCompletionError(domain.CategoryUpstream, "Invalid API key", 401, nil),
			wantErr:      domain.ErrUpstream,
			wantCalls:    1,
			wantCategory: "upstream",
		},
		{
			name:         "configuration error passed through",
			prompt:       "hi",
			llmErr:       domain.NewCompletionError(domain.CategoryConfiguration, "ChatGPT API Key is not configured.", 0, nil),
			wantErr:      domain.ErrConfiguration,
			wantCalls:    1,
			wantCategory: "configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mock.New().WithResponse("hello there")
			if tt.llmErr != nil {
				client.WithError(tt.llmErr)
			}
			repo := repository.NewMockUsageRepository()
			reg := prometheus.NewRegistry()
			m := metrics.New(reg)

			svc := NewCompletionService(client, repo, m, logger)
			ctx := requestid.With(context.Background(), "req-42")

			got, err := svc.Complete(ctx, domain.CompletionRequest{Prompt: tt.prompt})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Complete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != "hello there" {
				t.Errorf("Complete() = %q, want %q", got, "hello there")
			}
			if client.Calls() != tt.wantCalls {
				t.Errorf("llm calls = %d, want %d", client.Calls(), tt.wantCalls)
			}
			if tt.wantCalls > 0 && client.LastPrompt != tt.prompt {
				t.Errorf("llm prompt = %q, want %q", client.LastPrompt, tt.prompt)
			}

			records := repo.Records()
			if tt.wantCalls == 0 {
				if len(records) != 0 {
					t.Errorf("usage records = %d, want 0", len(records))
				}
				return
			}

			if len(records) != 1 {
				t.Fatalf("usage records = %d, want 1", len(records))
			}
			if records[0].Category != tt.wantCategory {
				t.Errorf("usage category = %q, want %q", records[0].Category, tt.wantCategory)
			}
			if records[0].RequestID != "req-42" {
				t.Errorf("usage request id = %q, want req-42", records[0].RequestID)
			}
			if records[0].Model != "mock-model" {
				t.Errorf("usage model = %q, want mock-model", records[0].Model)
			}

			counter := m.UpstreamRequestsTotal.WithLabelValues("mock-model", tt.wantCategory)
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Errorf("upstream counter = %v, want 1", got)
			}
		})
	}
}

func TestCompletionService_UsageFailureDoesNotChangeOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := repository.NewMockUsageRepository()
	repo.Err = errors.New("database error")
	m := metrics.New(prometheus.NewRegistry())

	svc := NewCompletionService(mock.New().WithResponse("ok"), repo, m, zap.New(core))

	got, err := svc.Complete(context.Background(), domain.CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete() unexpected error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Complete() = %q, want ok", got)
	}
	if logs.FilterMessage("failed to record usage").Len() != 1 {
		t.Error("expected a warning about the usage write")
	}
	if testutil.ToFloat64(m.UsageWriteFailuresTotal) != 1 {
		t.Error("expected usage write failure to be counted")
	}
}

func TestCompletionService_NilDependencies(t *testing.T) {
	svc := NewCompletionService(mock.New().WithResponse("ok"), nil, nil, zap.NewNop())

	got, err := svc.Complete(context.Background(), domain.CompletionRequest{Prompt: "hi"})
	if err != nil || got != "ok" {
		t.Errorf("Complete() = %q, %v; want ok, nil", got, err)
	}
}

func TestCompletionService_CanceledContextStillRecordsUsage(t *testing.T) {
	client := mock.New().WithDelay(time.Second)
	repo := repository.NewMockUsageRepository()
	svc := NewCompletionService(client, repo, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Complete(ctx, domain.CompletionRequest{Prompt: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Complete() error = %v, want context.Canceled", err)
	}
	if len(repo.Records()) != 1 {
		t.Errorf("usage records = %d, want 1", len(repo.Records()))
	}
}

func TestCompletionService_Deterministic(t *testing.T) {
	client := mock.New().WithResponse("same answer")
	svc := NewCompletionService(client, nil, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := svc.Complete(context.Background(), domain.CompletionRequest{Prompt: "hi"})
		if err != nil || got != "same answer" {
			t.Fatalf("call %d: Complete() = %q, %v", i, got, err)
		}
	}
	if client.Calls() != 3 {
		t.Errorf("llm calls = %d, want 3", client.Calls())
	}
}
