// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/trendcompare/internal/chart"
	"github.com/tomtom215/trendcompare/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns version, uptime, the Google Trends circuit breaker state and whether the chart directory is writable
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	breakerState := h.breakerState()
	writable := chart.Writable(h.chartPath)

	// Degraded still answers 200; readiness is the probe that gates traffic.
	status := "healthy"
	if !writable || breakerState == "open" {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:        status,
			Version:       h.version,
			BreakerState:  breakerState,
			ChartWritable: writable,
			Uptime:        time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: h.now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: h.now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK when the chart directory is writable and the Google Trends circuit is not open. Returns 503 otherwise.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	breakerState := h.breakerState()
	writable := chart.Writable(h.chartPath)
	ready := writable && breakerState != "open"

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"chart_writable": writable,
			"breaker_state":  breakerState,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: h.now(),
		},
	})
}

func (h *Handler) breakerState() string {
	if h.breaker == nil {
		return "disabled"
	}
	return h.breaker.State()
}
