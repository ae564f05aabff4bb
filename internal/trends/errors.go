// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package trends

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the fetcher. Match them with errors.Is.
var (
	// ErrEmptyResult means Google returned no rows for the query. It is a
	// normal outcome and is never retried.
	ErrEmptyResult = errors.New("no data available for the given keywords")

	// ErrRateLimitExceeded matches a *FetchError of kind FailureRateLimited.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrTransientFetchFailure matches a *FetchError of kind FailureTransient.
	ErrTransientFetchFailure = errors.New("transient fetch failure")

	// ErrRateLimited is the per-attempt classification of an HTTP 429 from Google.
	ErrRateLimited = errors.New("google trends responded 429 too many requests")

	// ErrCircuitOpen is the per-attempt failure while the breaker rejects calls.
	ErrCircuitOpen = errors.New("trends circuit breaker is open")
)

// FailureKind distinguishes the two terminal failures of a fetch.
type FailureKind int

const (
	FailureTransient FailureKind = iota
	FailureRateLimited
)

func (k FailureKind) String() string {
	if k == FailureRateLimited {
		return "rate_limited"
	}
	return "transient"
}

// FetchError is returned once every attempt has failed.
type FetchError struct {
	Kind     FailureKind
	Attempts int
	Cause    error
}

func (e *FetchError) Error() string {
	if e.Kind == FailureRateLimited {
		return fmt.Sprintf("Failed to fetch Google Trends data after %d attempts due to rate limiting. "+
			"Try again later or route requests through a dedicated proxy.", e.Attempts)
	}
	if e.Cause == nil {
		return fmt.Sprintf("An error occurred while fetching Google Trends data after %d attempts.", e.Attempts)
	}
	return fmt.Sprintf("An error occurred while fetching Google Trends data after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match the kind sentinels.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrRateLimitExceeded:
		return e.Kind == FailureRateLimited
	case ErrTransientFetchFailure:
		return e.Kind == FailureTransient
	}
	return false
}
