// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
Package main is the entry point for the Trendcompare server.

The server compares relative Google Trends search interest for two to five
keywords. Browsers use the HTML flow (GET /, POST /compare, GET /image),
which renders a PNG line chart; programs use POST /api/compare, which
returns the interest table as JSON.

# Application Architecture

	RootSupervisor ("trendcompare")
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. .env file (godotenv, optional)
 2. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 3. Logging: zerolog with JSON or console output
 4. Trends fetcher: outbound rate limiter, concurrency bound, circuit breaker
    and retry policy, shared by every request
 5. Chart renderer
 6. Supervisor tree and HTTP server

# Configuration

	HTTP_PORT=5000               # listen port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	RETRY_MAX_ATTEMPTS=3         # attempts per comparison
	RETRY_INITIAL_DELAY=5s       # wait before the first attempt
	TRENDS_REQUESTS_PER_MINUTE=30
	BREAKER_ENABLED=true
	CHART_OUTPUT_PATH=static/google_trends_comparison.png
	RATE_LIMIT_REQUESTS=60       # inbound, per client IP
	CORS_ORIGINS=*

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server stops
accepting connections and waits up to 30 seconds for in-flight comparisons,
which may be sleeping in retry backoff.
*/
package main
