// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/tomtom215/trendcompare/docs" // swagger docs
	"github.com/tomtom215/trendcompare/internal/chart"
	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/supervisor"
	"github.com/tomtom215/trendcompare/internal/supervisor/services"
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", Version).
		Str("environment", cfg.Server.Environment).
		Str("trends_url", logging.RedactURL(cfg.Trends.BaseURL)).
		Int("max_attempts", cfg.Retry.MaxAttempts).
		Bool("breaker_enabled", cfg.Breaker.Enabled).
		Str("chart_path", cfg.Chart.OutputPath).
		Msg("Configuration loaded")

	if cfg.Server.IsProduction() && cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to restrict it")
	}

	if !chart.Writable(cfg.Chart.OutputPath) {
		// Not fatal: the JSON API works without a chart directory.
		logging.Warn().Str("chart_path", cfg.Chart.OutputPath).Msg("Chart directory is not writable; HTML comparisons will fail")
	}

	fetcher := newFetcher(cfg)
	handler := newHandler(cfg, fetcher)
	server := newHTTPServer(cfg, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, services.DefaultShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")

	// Serve returns once a signal cancels ctx and every service has stopped.
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Server stopped")
}
