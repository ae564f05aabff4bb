// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/trendcompare/internal/models"
	"github.com/tomtom215/trendcompare/internal/trends"
)

// fakeFetcher records queries and returns a canned result.
type fakeFetcher struct {
	mu      sync.Mutex
	series  *models.TrendSeries
	err     error
	queries []models.Query
}

func (f *fakeFetcher) Fetch(_ context.Context, q models.Query) (*models.TrendSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.series, f.err
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// fakeRenderer writes a placeholder file instead of drawing a chart.
type fakeRenderer struct {
	err       error
	timeframe string
}

func (r *fakeRenderer) Render(_ *models.TrendSeries, timeframe, path string) error {
	r.timeframe = timeframe
	if r.err != nil {
		return r.err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("\x89PNG fake"), 0o600)
}

type fakeBreaker string

func (b fakeBreaker) State() string { return string(b) }

func newTestHandler(t *testing.T, f Fetcher, r Renderer) *Handler {
	t.Helper()
	return NewHandler(HandlerConfig{
		Fetcher:   f,
		Renderer:  r,
		ChartPath: filepath.Join(t.TempDir(), "static", "google_trends_comparison.png"),
		Version:   "test",
	})
}

// weeklyRows builds n weekly rows for the given keywords starting 2024-01-07.
func weeklyRows(keywords []string, n int) *models.TrendSeries {
	s := &models.TrendSeries{Keywords: keywords}
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := models.TrendPoint{Time: start.AddDate(0, 0, 7*i)}
		for k := range keywords {
			p.Values = append(p.Values, models.Interest{Value: 40 + 10*k + i, Valid: true})
		}
		s.Points = append(s.Points, p)
	}
	return s
}

// rateLimitExhausted runs a real Fetcher against an always-429 source so the
// error carries the exact production message.
func rateLimitExhausted(t *testing.T) error {
	t.Helper()
	src := trends.SourceFunc(func(context.Context, models.Query) trends.Outcome {
		return trends.Failure(trends.ErrRateLimited)
	})
	f := trends.NewFetcher(func() (trends.Source, error) { return src, nil }, trends.DefaultRetryPolicy(),
		trends.WithSleep(func(context.Context, time.Duration) error { return nil }))

	_, err := f.Fetch(context.Background(), models.NewQuery([]string{"a", "b"}, ""))
	if !errors.Is(err, trends.ErrRateLimitExceeded) {
		t.Fatalf("setup: err = %v, want ErrRateLimitExceeded", err)
	}
	return err
}

type panicFetcher struct{}

func (panicFetcher) Fetch(context.Context, models.Query) (*models.TrendSeries, error) {
	panic("fetcher exploded")
}
