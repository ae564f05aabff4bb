// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
Package middleware provides HTTP middleware shared by every Trendcompare route.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the zerolog context
  - Prometheus Metrics: request count, latency and in-flight instrumentation

Both are written against http.HandlerFunc and adapted to chi's
func(http.Handler) http.Handler shape by the api package:

	r.With(chiMiddleware(middleware.PrometheusMetrics)).Post("/api/compare", h.APICompare)

Metrics are labelled with the chi route pattern when one is available so that
/static/* requests do not create one series per file.
*/
package middleware
