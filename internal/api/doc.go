// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
Package api provides the HTTP layer of Trendcompare.

Two front ends share one retry controller:

  - HTML flow: GET / shows the comparison form, POST /compare fetches the
    series, renders the chart and redirects to GET /image, which embeds the
    chart served from /static/.
  - JSON API: POST /api/compare returns the series as a schema-plus-rows
    table document, or {"error": "..."} with 400, 404, 429 or 500.

Operational routes:

  - /api/v1/health, /api/v1/health/live, /api/v1/health/ready
  - /metrics (Prometheus)
  - /swagger/* (OpenAPI UI for the JSON API)

Middleware Stack:

Every route runs behind request IDs, chi's RealIP and Recoverer, and CORS.
The comparison routes add a per-IP httprate limiter, security headers and
Prometheus instrumentation.

Usage:

	h := api.NewHandler(api.HandlerConfig{
	    Fetcher:   fetcher,
	    Renderer:  chart.NewRenderer(&cfg.Chart),
	    ChartPath: cfg.Chart.OutputPath,
	    Breaker:   fetcher.Breaker(),
	})
	router := api.NewRouter(h, api.NewChiMiddlewareFromConfig(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Address(), Handler: router.SetupChi()}

Thread Safety:

Handlers hold no per-request state. The chart file is shared: concurrent
HTML comparisons overwrite it last-writer-wins, and each write is atomic.
*/
package api
