// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/models"
	"github.com/tomtom215/trendcompare/internal/trends"
	"github.com/tomtom215/trendcompare/internal/validation"
)

// JSON API messages.
const (
	MsgInvalidPayload = "Invalid JSON payload or non-JSON request"
	MsgInternalError  = "An internal error occurred while fetching trends data."
)

// maxJSONBytes bounds the request body of POST /api/compare.
const maxJSONBytes = 64 << 10

// APICompare handles JSON comparison requests
//
// @Summary Compare keyword interest over time
// @Description Fetches Google Trends interest over time for 2 to 5 keywords and returns it as a
// @Description schema-plus-rows table (pandas orient="table" layout). Upstream rate limits are
// @Description retried with backoff, so a request can take minutes.
// @Tags Compare
// @Accept json
// @Produce json
// @Param request body models.CompareRequest true "Keywords and optional timeframe (default today 12-m)"
// @Success 200 {object} models.Table "Interest over time"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "No data available for the given keywords"
// @Failure 429 {object} models.ErrorResponse "Google Trends rate limit persisted through every retry"
// @Failure 500 {object} models.ErrorResponse "Fetch failed"
// @Router /api/compare [post]
func (h *Handler) APICompare(w http.ResponseWriter, r *http.Request) {
	q, msg := parseCompareJSON(w, r)
	if msg != "" {
		respondErrorJSON(w, http.StatusBadRequest, msg)
		return
	}

	log := logging.Ctx(r.Context())
	series, err := h.fetcher.Fetch(r.Context(), q)
	switch {
	case errors.Is(err, trends.ErrEmptyResult):
		respondErrorJSON(w, http.StatusNotFound, MsgNoData)
		return
	case errors.Is(err, trends.ErrRateLimitExceeded):
		log.Warn().Err(err).Msg("Comparison rate limited")
		respondErrorJSON(w, http.StatusTooManyRequests, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Strs("keywords", logging.SanitizeValues(q.Keywords)).Msg("Comparison failed")
		respondErrorJSON(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	data, err := series.MarshalTable()
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode comparison table")
		respondErrorJSON(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	log.Info().
		Strs("keywords", logging.SanitizeValues(q.Keywords)).
		Str("timeframe", logging.SanitizeValue(q.Timeframe)).
		Int("rows", series.Len()).
		Msg("Comparison served")
	writeJSON(w, http.StatusOK, data)
}

// parseCompareJSON applies the request rules in order and returns the first
// failing message. The payload is decoded generically so that wrong types
// get the same messages as wrong counts.
func parseCompareJSON(w http.ResponseWriter, r *http.Request) (models.Query, string) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return models.Query{}, MsgInvalidPayload
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil || len(body) == 0 {
		return models.Query{}, MsgInvalidPayload
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Query{}, MsgInvalidPayload
	}
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return models.Query{}, MsgInvalidPayload
	}

	list, ok := obj["keywords"].([]interface{})
	if !ok || len(list) < models.MinKeywords {
		return models.Query{}, validation.MsgTooFewKeywords
	}
	if len(list) > models.MaxKeywords {
		return models.Query{}, validation.MsgTooManyKeywords
	}

	keywords := make([]string, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return models.Query{}, validation.MsgNonStringKeyword
		}
		keywords[i] = s
	}

	var timeframe string
	if raw, present := obj["timeframe"]; present && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return models.Query{}, validation.MsgInvalidTimeframe
		}
		timeframe = strings.TrimSpace(s)
	}

	q := models.NewQuery(keywords, timeframe)
	if ve := validation.ValidateStruct(&q); ve != nil {
		return models.Query{}, validation.QueryMessage(ve)
	}
	return q, ""
}

// isJSONContentType accepts application/json and application/*+json.
func isJSONContentType(header string) bool {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mt == "application/json" ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}
