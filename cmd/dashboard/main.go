package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roadwatch/accident-insight/internal/adapter/httpapi"
	"github.com/roadwatch/accident-insight/internal/config"
	"github.com/roadwatch/accident-insight/internal/dataset"
	"github.com/roadwatch/accident-insight/internal/observability"
	"github.com/roadwatch/accident-insight/internal/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := dataset.NewLoader(cfg.DataPath, cfg.DatasetCacheTTL, nil, logger, metrics)
	engine := query.NewEngine(cfg.TopRegions, cfg.QueryCacheSize, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, loader, engine, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Eager first load so readiness flips as soon as the file parses. A
	// failure is not fatal: the server stays up and surfaces the blocking
	// error on every request until the file appears.
	if _, err := loader.Load(ctx); err != nil {
		logger.Error("initial dataset load failed", "error", err, "path", cfg.DataPath)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
