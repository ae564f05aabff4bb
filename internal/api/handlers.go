// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package api

import (
	"context"
	"time"

	"github.com/tomtom215/trendcompare/internal/chart"
	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/models"
)

// Fetcher retrieves a comparison series. *trends.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q models.Query) (*models.TrendSeries, error)
}

// Renderer draws a series to a PNG file. *chart.Renderer implements it.
type Renderer interface {
	Render(series *models.TrendSeries, timeframe, path string) error
}

// BreakerState reports the upstream circuit breaker state for health checks.
type BreakerState interface {
	State() string
}

// Handler contains dependencies for HTTP handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response helpers
//   - handlers_html.go: form, compare and image pages
//   - handlers_compare.go: JSON comparison endpoint
//   - handlers_health.go: health probes
type Handler struct {
	fetcher   Fetcher
	renderer  Renderer
	chartPath string
	breaker   BreakerState
	version   string
	startTime time.Time
	now       func() time.Time
}

// HandlerConfig carries the dependencies of NewHandler.
type HandlerConfig struct {
	Fetcher  Fetcher
	Renderer Renderer

	// ChartPath is where the HTML flow writes the chart; /static/ serves its directory.
	ChartPath string

	// Breaker is optional.
	Breaker BreakerState
	Version string
}

// NewHandler creates a Handler. Renderer and ChartPath fall back to the defaults.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		fetcher:   cfg.Fetcher,
		renderer:  cfg.Renderer,
		chartPath: cfg.ChartPath,
		breaker:   cfg.Breaker,
		version:   cfg.Version,
		startTime: time.Now(),
		now:       time.Now,
	}
	if h.renderer == nil {
		h.renderer = chart.NewRenderer(nil)
	}
	if h.chartPath == "" {
		h.chartPath = config.DefaultChartPath
	}
	if h.version == "" {
		h.version = "dev"
	}
	return h
}

// ChartPath returns the file the HTML flow renders into.
func (h *Handler) ChartPath() string {
	return h.chartPath
}
