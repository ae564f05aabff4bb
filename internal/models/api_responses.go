// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package models

import (
	"time"
)

// CompareRequest is the body of POST /api/compare.
// It exists for API documentation; the handler decodes the body loosely so
// that each malformed shape gets its own error message.
type CompareRequest struct {
	Keywords  []string `json:"keywords" example:"python,javascript"`
	Timeframe string   `json:"timeframe,omitempty" example:"today 12-m"`
}

// ErrorResponse is the body of every 4xx/5xx response of the comparison API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// APIResponse is the envelope used by the operational endpoints (health).
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries the response timestamp.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError is a coded error inside an APIResponse.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	BreakerState  string  `json:"breaker_state"`
	ChartWritable bool    `json:"chart_writable"`
	Uptime        float64 `json:"uptime_seconds"`
}
