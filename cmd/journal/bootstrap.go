package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trading-journal/internal/analytics"
	"trading-journal/internal/analytics/analyticsobs"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/ledger"
	"trading-journal/internal/ledger/postgres"
	"trading-journal/internal/logger"
	"trading-journal/internal/metrics"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
)

// initializeSystem loads .env and sets up logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// openLedger returns the configured trade source and a cleanup func.
func openLedger(ctx context.Context, cfg *store.Config) (interfaces.Ledger, func(), error) {
	switch cfg.Ledger.Source {
	case store.SourceCSV:
		logger.Info(ctx, "Using CSV trade import", "path", cfg.Ledger.Path)
		return ledger.NewCSVFile(cfg.Ledger.Path), func() {}, nil
	case store.SourcePostgres:
		logger.Info(ctx, "Connecting to Postgres trade ledger")
		pg, err := postgres.Open(ctx, cfg.Ledger.DatabaseURL, time.Duration(cfg.Ledger.ConnectTimeout)*time.Second)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		logger.Info(ctx, "Using JSONL journal", "path", cfg.Ledger.Path)
		return ledger.NewJSONLFile(cfg.Ledger.Path), func() {}, nil
	}
}

// initializeEngine builds the analytics engine wrapped with observability
func initializeEngine(cfg *store.Config) (interfaces.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	eng := analytics.NewEngine(
		analytics.WithLocation(loc),
		analytics.WithCacheSize(cfg.CacheSize),
		analytics.WithStartingEquity(cfg.StartingEquityDecimal()),
		analytics.WithWeights(cfg.Consistency),
	)
	return analyticsobs.Wrap(eng), nil
}

// serveMetrics exposes /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info(ctx, "Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Metrics server stopped", err)
		}
	}()
}
