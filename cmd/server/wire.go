// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package main

import (
	"net/http"
	"time"

	"github.com/tomtom215/trendcompare/internal/api"
	"github.com/tomtom215/trendcompare/internal/chart"
	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/trends"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// newFetcher builds the shared retry controller: one outbound limiter, one
// concurrency bound and one circuit breaker for every request the server
// handles.
func newFetcher(cfg *config.Config) *trends.Fetcher {
	limiter := trends.NewLimiter(cfg.Trends.RequestsPerMinute)
	factory := trends.NewClientFactory(trends.ClientConfigFrom(&cfg.Trends), limiter)

	opts := []trends.Option{trends.WithMaxConcurrent(cfg.Trends.MaxConcurrentFetches)}
	if cfg.Breaker.Enabled {
		opts = append(opts, trends.WithBreaker(trends.NewBreaker(&cfg.Breaker)))
	}
	return trends.NewFetcher(factory, trends.RetryPolicyFrom(&cfg.Retry), opts...)
}

// newHandler wires the fetcher and chart renderer into the HTTP handlers.
func newHandler(cfg *config.Config, fetcher *trends.Fetcher) *api.Handler {
	hc := api.HandlerConfig{
		Fetcher:   fetcher,
		Renderer:  chart.NewRenderer(&cfg.Chart),
		ChartPath: cfg.Chart.OutputPath,
		Version:   Version,
	}
	// A nil *Breaker stored in the interface would not compare equal to nil.
	if b := fetcher.Breaker(); b != nil {
		hc.Breaker = b
	}
	return api.NewHandler(hc)
}

// newHTTPServer builds the server with the full middleware stack.
func newHTTPServer(cfg *config.Config, handler *api.Handler) *http.Server {
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	return &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}
