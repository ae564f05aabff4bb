// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package trends

import (
	"context"

	"github.com/tomtom215/trendcompare/internal/models"
)

// OutcomeKind classifies a single upstream attempt.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeEmpty
	OutcomeRateLimited
	OutcomeFailed
)

// String returns the metrics label for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "failed"
	}
}

// Outcome is the result of one attempt. Series is set only for OutcomeSuccess;
// Err is set for OutcomeRateLimited and OutcomeFailed.
type Outcome struct {
	Kind   OutcomeKind
	Series *models.TrendSeries
	Err    error
}

// Success wraps a series, reporting OutcomeEmpty when it has no rows.
func Success(s *models.TrendSeries) Outcome {
	if s.Empty() {
		return Outcome{Kind: OutcomeEmpty}
	}
	return Outcome{Kind: OutcomeSuccess, Series: s}
}

// Failure classifies err as a rate limit or a generic failure.
func Failure(err error) Outcome {
	if isRateLimited(err) {
		return Outcome{Kind: OutcomeRateLimited, Err: err}
	}
	return Outcome{Kind: OutcomeFailed, Err: err}
}

// Source is one upstream connection able to answer an interest-over-time query.
type Source interface {
	InterestOverTime(ctx context.Context, q models.Query) Outcome
}

// SourceFactory builds a fresh Source for every attempt.
type SourceFactory func() (Source, error)

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, q models.Query) Outcome

func (f SourceFunc) InterestOverTime(ctx context.Context, q models.Query) Outcome {
	return f(ctx, q)
}
