// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

// Package models defines the data types shared by the trends client, the
// retry controller, the chart renderer and the HTTP handlers.
package models

import (
	"sort"
	"time"
)

// Keyword count bounds for a single comparison.
const (
	MinKeywords = 2
	MaxKeywords = 5
)

// DefaultTimeframe is used when a caller does not supply one.
const DefaultTimeframe = "today 12-m"

// Query is one comparison request.
type Query struct {
	Keywords  []string `json:"keywords" validate:"min=2,max=5,unique,dive,notblank,notreserved"`
	Timeframe string   `json:"timeframe" validate:"timeframe"`
}

// NewQuery builds a Query, substituting DefaultTimeframe for an empty timeframe.
func NewQuery(keywords []string, timeframe string) Query {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	return Query{Keywords: kw, Timeframe: timeframe}
}

// Interest is a normalized popularity score in [0,100] for one keyword at
// one point in time. Valid is false when the source had no value.
type Interest struct {
	Value int
	Valid bool
}

// TrendPoint is one row of a TrendSeries: a timestamp and one Interest per keyword.
type TrendPoint struct {
	Time    time.Time
	Values  []Interest
	Partial bool
}

// TrendSeries is interest over time for an ordered set of keywords.
// Values[i] of every point belongs to Keywords[i].
type TrendSeries struct {
	Keywords []string
	Points   []TrendPoint

	// HasPartial is set while the partial-period marker column is present.
	HasPartial bool
}

// Empty reports whether the series has no rows.
func (s *TrendSeries) Empty() bool {
	return s == nil || len(s.Points) == 0
}

// Len returns the number of rows.
func (s *TrendSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Normalize sorts rows by ascending timestamp and drops rows whose timestamp
// was already seen; the first occurrence wins.
func (s *TrendSeries) Normalize() {
	if s.Empty() {
		return
	}
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Time.Before(s.Points[j].Time)
	})

	out := s.Points[:1]
	for _, p := range s.Points[1:] {
		if p.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, p)
	}
	s.Points = out
}

// StripPartialMarker removes the partial-period column. Values are kept.
func (s *TrendSeries) StripPartialMarker() {
	if s == nil {
		return
	}
	s.HasPartial = false
	for i := range s.Points {
		s.Points[i].Partial = false
	}
}

// Column returns the values of keyword i, in row order.
func (s *TrendSeries) Column(i int) []Interest {
	col := make([]Interest, len(s.Points))
	for r, p := range s.Points {
		if i < len(p.Values) {
			col[r] = p.Values[i]
		}
	}
	return col
}

// Start returns the first timestamp, or the zero time for an empty series.
func (s *TrendSeries) Start() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.Points[0].Time
}

// End returns the last timestamp, or the zero time for an empty series.
func (s *TrendSeries) End() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Time
}
