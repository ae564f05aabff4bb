// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

// Package metrics holds the Prometheus instrumentation for Trendcompare,
// exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Buckets reach minutes because a comparison sleeps through backoff
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.25, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of inbound rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Trends Fetch Metrics
	TrendsAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_fetch_attempts_total",
			Help: "Total number of upstream Google Trends attempts by outcome",
		},
		[]string{"outcome"}, // success, empty, rate_limited, failed
	)

	TrendsFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_fetches_total",
			Help: "Total number of comparisons by final result",
		},
		[]string{"result"}, // success, empty, rate_limit_exceeded, transient_failure, canceled
	)

	TrendsRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_retries_total",
			Help: "Total number of retries scheduled by the retry controller",
		},
		[]string{"reason"}, // rate_limited, failed
	)

	TrendsBackoffSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trends_backoff_seconds",
			Help:    "Backoff delay chosen before a retry",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 90, 120},
		},
	)

	TrendsFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trends_fetch_duration_seconds",
			Help:    "Wall time of a whole comparison fetch including backoff",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 240, 480},
		},
	)

	TrendsInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trends_fetches_inflight",
			Help: "Comparisons currently holding an upstream fetch slot",
		},
	)

	// Chart Metrics
	ChartRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chart_render_duration_seconds",
			Help:    "Time spent rendering and writing the comparison chart",
			Buckets: prometheus.DefBuckets,
		},
	)

	ChartRenderErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chart_render_errors_total",
			Help: "Total number of failed chart renders",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records API request metrics
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTrendsAttempt counts one upstream attempt by outcome label.
func RecordTrendsAttempt(outcome string) {
	TrendsAttempts.WithLabelValues(outcome).Inc()
}

// RecordTrendsRetry counts a scheduled retry and its backoff.
func RecordTrendsRetry(reason string, delay time.Duration) {
	TrendsRetries.WithLabelValues(reason).Inc()
	TrendsBackoffSeconds.Observe(delay.Seconds())
}

// RecordTrendsFetch records the final result of a comparison fetch.
func RecordTrendsFetch(result string, duration time.Duration) {
	TrendsFetches.WithLabelValues(result).Inc()
	TrendsFetchDuration.Observe(duration.Seconds())
}

// RecordChartRender records chart rendering time and failures.
func RecordChartRender(duration time.Duration, err error) {
	ChartRenderDuration.Observe(duration.Seconds())
	if err != nil {
		ChartRenderErrors.Inc()
	}
}
