// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/models"
	"github.com/tomtom215/trendcompare/internal/trends"
	"github.com/tomtom215/trendcompare/internal/validation"
)

// HTML flow messages.
const (
	MsgMissingFormKeywords = "Please provide at least two keywords for comparison."
	MsgNoData              = "No data available for the given keywords."
	MsgNoChart             = "No comparison chart is available yet."
	MsgInvalidForm         = "Invalid form submission."
)

// maxFormKeywords is the number of keyword fields on the form.
const maxFormKeywords = 5

// maxFormBytes bounds the form body.
const maxFormBytes = 64 << 10

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

type timeframeOption struct {
	Value string
	Label string
}

var formTimeframes = []timeframeOption{
	{Value: "now 1-H", Label: "Past hour"},
	{Value: "now 4-H", Label: "Past 4 hours"},
	{Value: "now 1-d", Label: "Past day"},
	{Value: "now 7-d", Label: "Past 7 days"},
	{Value: "today 1-m", Label: "Past 30 days"},
	{Value: "today 3-m", Label: "Past 90 days"},
	{Value: "today 12-m", Label: "Past 12 months"},
	{Value: "today 5-y", Label: "Past 5 years"},
	{Value: "all", Label: "2004 - present"},
}

// Index renders the comparison form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "index.html.tmpl", struct {
		Timeframes []timeframeOption
		Default    string
	}{formTimeframes, models.DefaultTimeframe})
}

// Compare handles the form submission: it fetches the series, renders the
// chart and redirects to the image page. Every failure becomes an error page.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, MsgInvalidForm)
		return
	}

	q, msg := parseCompareForm(r)
	if msg != "" {
		h.renderError(w, http.StatusBadRequest, msg)
		return
	}

	log := logging.Ctx(r.Context())
	series, err := h.fetcher.Fetch(r.Context(), q)
	if err != nil {
		status, message := fetchErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Strs("keywords", logging.SanitizeValues(q.Keywords)).Msg("Comparison failed")
		}
		h.renderError(w, status, message)
		return
	}

	if err := h.renderer.Render(series, q.Timeframe, h.chartPath); err != nil {
		log.Error().Err(err).Msg("Chart rendering failed")
		h.renderError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().
		Strs("keywords", logging.SanitizeValues(q.Keywords)).
		Str("timeframe", logging.SanitizeValue(q.Timeframe)).
		Int("rows", series.Len()).
		Msg("Comparison chart generated")

	http.Redirect(w, r, "/image", http.StatusSeeOther)
}

// parseCompareForm reads keyword1..keyword5 and timeframe. keyword1 and
// keyword2 are required; later blank fields are skipped.
func parseCompareForm(r *http.Request) (models.Query, string) {
	keywords := make([]string, 0, maxFormKeywords)
	for i := 1; i <= maxFormKeywords; i++ {
		kw := strings.TrimSpace(r.PostFormValue("keyword" + strconv.Itoa(i)))
		if kw == "" {
			if i <= models.MinKeywords {
				return models.Query{}, MsgMissingFormKeywords
			}
			continue
		}
		keywords = append(keywords, kw)
	}

	q := models.NewQuery(keywords, strings.TrimSpace(r.PostFormValue("timeframe")))
	if ve := validation.ValidateStruct(&q); ve != nil {
		return models.Query{}, validation.QueryMessage(ve)
	}
	return q, ""
}

// fetchErrorStatus maps a Fetch error to a status and user-facing message.
func fetchErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, trends.ErrEmptyResult):
		return http.StatusNotFound, MsgNoData
	case errors.Is(err, trends.ErrRateLimitExceeded):
		return http.StatusTooManyRequests, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// Image shows the most recent chart. The query string changes whenever the
// file does so browsers never show a stale image.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(h.chartPath)
	if err != nil {
		h.renderError(w, http.StatusNotFound, MsgNoChart)
		return
	}

	src := path.Join("/static", filepath.Base(h.chartPath)) +
		"?v=" + strconv.FormatInt(info.ModTime().UnixNano(), 36)

	w.Header().Set("Cache-Control", "no-store")
	h.renderPage(w, http.StatusOK, "image.html.tmpl", struct{ Src string }{src})
}

// StaticHandler serves the chart directory without directory listings.
func (h *Handler) StaticHandler() http.Handler {
	fs := http.FileServer(http.Dir(filepath.Dir(h.chartPath)))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	}))
}

func (h *Handler) renderError(w http.ResponseWriter, status int, message string) {
	h.renderPage(w, status, "error.html.tmpl", struct{ Message string }{message})
}

// renderPage executes into a buffer first so a template error cannot leave
// a half-written page behind a 200.
func (h *Handler) renderPage(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Error().Err(err).Str("template", name).Msg("Failed to write page")
	}
}
