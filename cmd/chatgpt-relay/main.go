package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/chatgpt-relay/internal/cache/memory"
	"github.com/kitbuilder587/chatgpt-relay/internal/config"
	"github.com/kitbuilder587/chatgpt-relay/internal/llm/chatgpt"
	"github.com/kitbuilder587/chatgpt-relay/internal/metrics"
	"github.com/kitbuilder587/chatgpt-relay/internal/repository"
	"github.com/kitbuilder587/chatgpt-relay/internal/repository/postgres"
	"github.com/kitbuilder587/chatgpt-relay/internal/service"
	"github.com/kitbuilder587/chatgpt-relay/internal/web"
)

const usageSummaryTTL = 15 * time.Second

func main() {
	envFile := flag.String("env", "", "path to a dotenv file (default .env, optional)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("chatgpt-relay stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("chatgpt-relay stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	creds := cfg.Credentials()
	if c := creds.Credentials(); !c.HasKey() || !c.HasURL() {
		// not fatal: each request fails with a configuration error
		logger.Warn("ChatGPT credentials are not configured",
			zap.Bool("has_key", c.HasKey()),
			zap.Bool("has_url", c.HasURL()),
		)
	}

	client := chatgpt.New(chatgpt.Config{
		Model:     cfg.ChatGPT.Model,
		MaxTokens: cfg.ChatGPT.MaxTokens,
		Timeout:   cfg.ChatGPT.Timeout,
	}, creds, logger.Named("chatgpt"))

	var (
		usageRepo repository.UsageRepository
		usageSvc  service.UsageService
		ready     web.ReadinessChecker
	)
	if cfg.Database.URL != "" {
		db, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("usage recording enabled")

		usageRepo = postgres.NewUsageRepo(db)
		summaries := memory.New[*service.UsageSummary](ctx, time.Minute)
		defer summaries.Stop()

		usageSvc = service.NewCachedUsageService(
			service.NewUsageService(usageRepo, logger.Named("usage")),
			summaries,
			usageSummaryTTL,
		)
		ready = db.Ping
	}

	completions := service.NewCompletionService(client, usageRepo, m, logger.Named("completion"))
	handler := web.NewHandler(completions, usageSvc, logger.Named("web"))
	srv := web.NewServer(web.ServerConfig{Addr: cfg.HTTP.Addr}, handler, m, prometheus.DefaultGatherer, ready, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Timeouts.Shutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	logger.Info("chatgpt-relay started",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("model", client.Model()),
	)

	return g.Wait()
}
