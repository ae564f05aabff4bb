// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package trends

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/metrics"
	"github.com/tomtom215/trendcompare/internal/models"
)

// RetryPolicy bounds the retry loop of a Fetcher.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration

	// Each backoff multiplies the delay by 2*jitter, jitter drawn from
	// [JitterMin, JitterMax).
	JitterMin float64
	JitterMax float64

	RateLimitMaxDelay time.Duration
	ErrorMaxDelay     time.Duration
}

// DefaultRetryPolicy returns 3 attempts, 5s initial delay, caps of 120s for
// rate limits and 60s for other failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialDelay:      5 * time.Second,
		JitterMin:         0.5,
		JitterMax:         1.5,
		RateLimitMaxDelay: 120 * time.Second,
		ErrorMaxDelay:     60 * time.Second,
	}
}

// RetryPolicyFrom maps the retry section of the application config.
func RetryPolicyFrom(cfg *config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       cfg.MaxAttempts,
		InitialDelay:      cfg.InitialDelay,
		JitterMin:         cfg.JitterMin,
		JitterMax:         cfg.JitterMax,
		RateLimitMaxDelay: cfg.RateLimitMaxDelay,
		ErrorMaxDelay:     cfg.ErrorMaxDelay,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSleep replaces the wait between attempts.
func WithSleep(fn SleepFunc) Option {
	return func(f *Fetcher) { f.sleep = fn }
}

// WithJitter replaces the jitter source. fn must return a multiplier.
func WithJitter(fn func() float64) Option {
	return func(f *Fetcher) { f.jitter = fn }
}

// WithMaxConcurrent bounds how many Fetch calls talk to Google at once.
// Values <= 0 leave it unbounded.
func WithMaxConcurrent(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithBreaker routes every attempt through b.
func WithBreaker(b *Breaker) Option {
	return func(f *Fetcher) { f.breaker = b }
}

// Fetcher is the retry controller around a SourceFactory.
// Each Fetch call keeps its own attempt counter and delay; a Fetcher is safe
// for concurrent use.
type Fetcher struct {
	factory SourceFactory
	policy  RetryPolicy
	sleep   SleepFunc
	jitter  func() float64
	sem     *semaphore.Weighted
	breaker *Breaker
}

// NewFetcher creates a Fetcher.
func NewFetcher(factory SourceFactory, policy RetryPolicy, opts ...Option) *Fetcher {
	f := &Fetcher{
		factory: factory,
		policy:  policy,
		sleep:   sleepCtx,
	}
	f.jitter = func() float64 {
		return f.policy.JitterMin + rand.Float64()*(f.policy.JitterMax-f.policy.JitterMin)
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.breaker != nil {
		f.factory = f.breaker.Wrap(f.factory)
	}
	return f
}

// Policy returns the retry policy.
func (f *Fetcher) Policy() RetryPolicy {
	return f.policy
}

// Breaker returns the circuit breaker, or nil when none is configured.
func (f *Fetcher) Breaker() *Breaker {
	return f.breaker
}

// Fetch runs the query with pacing and retries.
//
// It waits before every attempt, including the first. An empty result
// returns ErrEmptyResult at once. A rate-limited attempt doubles the delay
// (times jitter) up to RateLimitMaxDelay, any other failure up to
// ErrorMaxDelay. Once MaxAttempts are spent it returns a *FetchError whose
// kind follows the last failure.
func (f *Fetcher) Fetch(ctx context.Context, q models.Query) (*models.TrendSeries, error) {
	start := time.Now()

	if f.sem != nil {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			metrics.RecordTrendsFetch("canceled", time.Since(start))
			return nil, err
		}
		defer f.sem.Release(1)
	}

	metrics.TrendsInflight.Inc()
	defer metrics.TrendsInflight.Dec()

	series, result, err := f.run(ctx, q)
	metrics.RecordTrendsFetch(result, time.Since(start))
	return series, err
}

func (f *Fetcher) run(ctx context.Context, q models.Query) (*models.TrendSeries, string, error) {
	p := f.policy
	log := logging.Ctx(ctx)

	if p.MaxAttempts <= 0 {
		return nil, "transient_failure", &FetchError{
			Kind:  FailureTransient,
			Cause: errors.New("retry policy allows no attempts"),
		}
	}

	attempt := 0
	delay := p.InitialDelay

	for attempt < p.MaxAttempts {
		if err := f.sleep(ctx, delay); err != nil {
			return nil, "canceled", err
		}

		out := f.attempt(ctx, q)
		metrics.RecordTrendsAttempt(out.Kind.String())

		switch out.Kind {
		case OutcomeEmpty:
			return nil, "empty", ErrEmptyResult
		case OutcomeSuccess:
			out.Series.StripPartialMarker()
			return out.Series, "success", nil
		}

		if ctx.Err() != nil {
			return nil, "canceled", ctx.Err()
		}

		attempt++

		kind, maxDelay := FailureTransient, p.ErrorMaxDelay
		if out.Kind == OutcomeRateLimited {
			kind, maxDelay = FailureRateLimited, p.RateLimitMaxDelay
		}

		if attempt >= p.MaxAttempts {
			fe := &FetchError{Kind: kind, Attempts: attempt, Cause: out.Err}
			log.Error().Err(out.Err).Int("attempts", attempt).Str("kind", kind.String()).Msg("Trends fetch failed")
			if kind == FailureRateLimited {
				return nil, "rate_limit_exceeded", fe
			}
			return nil, "transient_failure", fe
		}

		delay = f.backoff(delay, maxDelay)
		metrics.RecordTrendsRetry(out.Kind.String(), delay)

		if kind == FailureRateLimited {
			log.Warn().
				Int("attempt", attempt).
				Int("max_attempts", p.MaxAttempts).
				Dur("retry_in", delay).
				Msg("Rate limit exceeded, retrying")
		} else {
			log.Warn().
				Err(out.Err).
				Int("attempt", attempt).
				Int("max_attempts", p.MaxAttempts).
				Dur("retry_in", delay).
				Msg("Trends fetch error, retrying")
		}
	}

	// Unreachable: the loop returns once attempt reaches MaxAttempts.
	return nil, "transient_failure", &FetchError{Kind: FailureTransient, Attempts: attempt}
}

// attempt runs one query against a fresh Source.
func (f *Fetcher) attempt(ctx context.Context, q models.Query) Outcome {
	src, err := f.factory()
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Err: err}
	}
	return src.InterestOverTime(ctx, q)
}

// backoff returns min(delay*2*jitter, maxDelay).
func (f *Fetcher) backoff(delay, maxDelay time.Duration) time.Duration {
	next := time.Duration(float64(delay) * 2 * f.jitter())
	if maxDelay > 0 && next > maxDelay {
		next = maxDelay
	}
	return next
}

// sleepCtx waits for d, returning early with ctx.Err() on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
