// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
client.go - Google Trends HTTP Client

Client speaks the undocumented web protocol behind trends.google.com:

 1. GET  /trends/explore?geo=XX           session cookie (NID) into the jar
 2. POST /trends/api/explore?req=...       widget list; the TIMESERIES widget
    carries the token and request for step 3
 3. GET  /trends/api/widgetdata/multiline  timelineData rows

JSON bodies are prefixed with an anti-XSSI guard (")]}'" or ")]}',") which is
stripped before decoding.

Every Client has its own cookie jar and a random Chrome User-Agent. The
retry controller asks NewClientFactory for a fresh Client on each attempt so
that a throttled session is never reused. Outbound requests of all clients
built by one factory share a single rate.Limiter.
*/

package trends

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/models"
)

// maxErrorBodySize limits how much of an error response is kept for diagnostics.
const maxErrorBodySize = 4 * 1024

const (
	explorePath   = "/trends/api/explore"
	multilinePath = "/trends/api/widgetdata/multiline"
	cookiePath    = "/trends/explore"

	timeseriesWidgetID = "TIMESERIES"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL  string
	HL       string
	TZ       int
	Geo      string
	Category int
	Property string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// ProxyURL overrides the HTTP_PROXY/HTTPS_PROXY environment.
	ProxyURL string

	// UserAgent is fixed when set; otherwise each Client draws a random one.
	UserAgent string
}

// ClientConfigFrom maps the trends section of the application config.
func ClientConfigFrom(cfg *config.TrendsConfig) ClientConfig {
	return ClientConfig{
		BaseURL:        cfg.BaseURL,
		HL:             cfg.HL,
		TZ:             cfg.TZ,
		Geo:            cfg.Geo,
		Category:       cfg.Category,
		Property:       cfg.Property,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		ProxyURL:       cfg.ProxyURL,
	}
}

// Client is a single Google Trends session.
type Client struct {
	cfg       ClientConfig
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a session with an empty cookie jar. limiter may be nil.
func NewClient(cfg ClientConfig, limiter *rate.Limiter) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid trends base URL %q", cfg.BaseURL)
	}

	proxy := http.ProxyFromEnvironment
	if cfg.ProxyURL != "" {
		p, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid trends proxy URL: %w", err)
		}
		proxy = http.ProxyURL(p)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 proxy,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = RandomUserAgent()
	}

	return &Client{
		cfg:       cfg,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: ua,
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
		},
		limiter: limiter,
	}, nil
}

// NewLimiter paces outbound requests to requestsPerMinute, with a burst of one
// attempt's worth of calls. Zero or negative disables pacing (nil).
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 3)
}

// NewClientFactory returns a SourceFactory producing a new Client per call.
func NewClientFactory(cfg ClientConfig, limiter *rate.Limiter) SourceFactory {
	return func() (Source, error) {
		return NewClient(cfg, limiter)
	}
}

// RandomUserAgent returns a desktop Chrome User-Agent with a random version.
func RandomUserAgent() string {
	return fmt.Sprintf("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
		"(KHTML, like Gecko) Chrome/%d.0.%d.%d Safari/537.36",
		80+rand.IntN(31), 1000+rand.IntN(9000), 100+rand.IntN(900))
}

// UserAgent returns the User-Agent this session sends.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// InterestOverTime implements Source.
func (c *Client) InterestOverTime(ctx context.Context, q models.Query) Outcome {
	series, err := c.FetchInterestOverTime(ctx, q)
	if err != nil {
		return Failure(err)
	}
	return Success(series)
}

// FetchInterestOverTime runs the full cookie, explore and multiline sequence.
// An empty result is returned as a series without points.
func (c *Client) FetchInterestOverTime(ctx context.Context, q models.Query) (*models.TrendSeries, error) {
	if err := c.loadCookie(ctx); err != nil {
		return nil, err
	}

	w, err := c.explore(ctx, q)
	if err != nil {
		return nil, err
	}

	return c.multiline(ctx, q.Keywords, w)
}

func (c *Client) loadCookie(ctx context.Context) error {
	params := url.Values{}
	params.Set("geo", geoFromHL(c.cfg.HL))

	resp, err := c.do(ctx, http.MethodGet, cookiePath, params)
	if err != nil {
		return fmt.Errorf("cookie request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return checkStatus("cookie", resp)
}

func (c *Client) explore(ctx context.Context, q models.Query) (*widget, error) {
	req := exploreRequest{
		ComparisonItem: make([]comparisonItem, len(q.Keywords)),
		Category:       c.cfg.Category,
		Property:       c.cfg.Property,
	}
	for i, kw := range q.Keywords {
		req.ComparisonItem[i] = comparisonItem{Keyword: kw, Time: q.Timeframe, Geo: c.cfg.Geo}
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode explore request: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.cfg.HL)
	params.Set("tz", strconv.Itoa(c.cfg.TZ))
	params.Set("req", string(reqJSON))

	var out exploreResponse
	if err := c.getJSON(ctx, "explore", http.MethodPost, explorePath, params, &out); err != nil {
		return nil, err
	}

	for i := range out.Widgets {
		if out.Widgets[i].ID == timeseriesWidgetID {
			return &out.Widgets[i], nil
		}
	}
	return nil, fmt.Errorf("explore response has no %s widget", timeseriesWidgetID)
}

func (c *Client) multiline(ctx context.Context, keywords []string, w *widget) (*models.TrendSeries, error) {
	params := url.Values{}
	params.Set("req", string(w.Request))
	params.Set("token", w.Token)
	params.Set("tz", strconv.Itoa(c.cfg.TZ))

	var out multilineResponse
	if err := c.getJSON(ctx, "multiline", http.MethodGet, multilinePath, params, &out); err != nil {
		return nil, err
	}

	return out.series(keywords)
}

func (c *Client) getJSON(ctx context.Context, op, method, path string, params url.Values, dst interface{}) error {
	resp, err := c.do(ctx, method, path, params)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}
	if err := json.Unmarshal(stripXSSI(body), dst); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.cfg.HL)

	logging.Ctx(ctx).Debug().
		Str("method", method).
		Str("url", logging.RedactURL(c.baseURL+path)).
		Msg("Trends request")

	return c.http.Do(req)
}

// checkStatus maps 429 to ErrRateLimited and any other non-200 to an error
// carrying a bounded prefix of the body.
func checkStatus(op string, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%s request failed with status %d: %s",
			op, resp.StatusCode, logging.SanitizeValue(string(body)))
	}
}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// stripXSSI removes the ")]}'" guard and the separator that may follow it.
func stripXSSI(body []byte) []byte {
	body = bytes.TrimPrefix(bytes.TrimSpace(body), []byte(")]}'"))
	return bytes.TrimLeft(body, ", \r\n")
}

// geoFromHL derives the cookie geo from a locale such as "en-US".
func geoFromHL(hl string) string {
	if len(hl) < 2 {
		return "US"
	}
	return strings.ToUpper(hl[len(hl)-2:])
}
