// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
Package trends fetches keyword interest over time from Google Trends.

Client implements the web protocol for a single session. Fetcher is the retry
controller: it paces every attempt, asks a SourceFactory for a fresh session
per attempt, retries rate limits and transient errors with capped exponential
backoff, and reports exhaustion as a *FetchError matching ErrRateLimitExceeded
or ErrTransientFetchFailure. An empty result is ErrEmptyResult and is never
retried.

Usage:

	limiter := trends.NewLimiter(cfg.Trends.RequestsPerMinute)
	factory := trends.NewClientFactory(trends.ClientConfigFrom(&cfg.Trends), limiter)
	fetcher := trends.NewFetcher(factory, trends.RetryPolicyFrom(&cfg.Retry),
		trends.WithBreaker(trends.NewBreaker(&cfg.Breaker)),
		trends.WithMaxConcurrent(cfg.Trends.MaxConcurrentFetches))

	series, err := fetcher.Fetch(ctx, models.NewQuery([]string{"go", "rust"}, "today 12-m"))
	switch {
	case errors.Is(err, trends.ErrEmptyResult):
	case errors.Is(err, trends.ErrRateLimitExceeded):
	}
*/
package trends
