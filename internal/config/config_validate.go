// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateTrends(); err != nil {
		return err
	}

	if err := c.validateRetry(); err != nil {
		return err
	}

	if err := c.validateBreaker(); err != nil {
		return err
	}

	if err := c.validateChart(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

// validateTrends validates the Google Trends client configuration
func (c *Config) validateTrends() error {
	if err := validateHTTPURL(c.Trends.BaseURL, "TRENDS_BASE_URL"); err != nil {
		return err
	}
	if c.Trends.ProxyURL != "" {
		if err := validateProxyURL(c.Trends.ProxyURL); err != nil {
			return fmt.Errorf("TRENDS_PROXY_URL is invalid: %w", err)
		}
	}
	if c.Trends.HL == "" {
		return fmt.Errorf("TRENDS_HL is required")
	}
	// Real UTC offsets span -14h..+12h
	if c.Trends.TZ < -840 || c.Trends.TZ > 720 {
		return fmt.Errorf("TRENDS_TZ must be between -840 and 720 minutes")
	}
	if c.Trends.Category < 0 {
		return fmt.Errorf("TRENDS_CATEGORY must not be negative")
	}
	if !validProperties[c.Trends.Property] {
		return fmt.Errorf("TRENDS_PROPERTY must be one of: \"\", images, news, youtube, froogle")
	}
	if c.Trends.ConnectTimeout <= 0 || c.Trends.ReadTimeout <= 0 {
		return fmt.Errorf("TRENDS_CONNECT_TIMEOUT and TRENDS_READ_TIMEOUT must be positive")
	}
	if c.Trends.RequestsPerMinute < 0 {
		return fmt.Errorf("TRENDS_REQUESTS_PER_MINUTE must not be negative")
	}
	if c.Trends.MaxConcurrentFetches < 1 {
		return fmt.Errorf("TRENDS_MAX_CONCURRENT_FETCHES must be at least 1")
	}
	return nil
}

var validProperties = map[string]bool{
	"":        true,
	"images":  true,
	"news":    true,
	"youtube": true,
	"froogle": true,
}

// validateRetry validates the retry controller policy
func (c *Config) validateRetry() error {
	r := c.Retry
	if r.MaxAttempts < 1 || r.MaxAttempts > 10 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be between 1 and 10")
	}
	if r.InitialDelay < 0 {
		return fmt.Errorf("RETRY_INITIAL_DELAY must not be negative")
	}
	if r.JitterMin <= 0 || r.JitterMax < r.JitterMin {
		return fmt.Errorf("RETRY_JITTER_MIN must be positive and not exceed RETRY_JITTER_MAX")
	}
	if r.RateLimitMaxDelay <= 0 || r.ErrorMaxDelay <= 0 {
		return fmt.Errorf("RETRY_RATE_LIMIT_MAX_DELAY and RETRY_ERROR_MAX_DELAY must be positive")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.ConsecutiveRateLimits == 0 {
		return fmt.Errorf("BREAKER_CONSECUTIVE_RATE_LIMITS must be at least 1")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateChart validates chart output configuration
func (c *Config) validateChart() error {
	if strings.TrimSpace(c.Chart.OutputPath) == "" {
		return fmt.Errorf("CHART_OUTPUT_PATH is required")
	}
	if !strings.EqualFold(filepath.Ext(c.Chart.OutputPath), ".png") {
		return fmt.Errorf("CHART_OUTPUT_PATH must end in .png, got: %s", c.Chart.OutputPath)
	}
	if c.Chart.WidthInch <= 0 || c.Chart.HeightInch <= 0 {
		return fmt.Errorf("CHART_WIDTH_INCH and CHART_HEIGHT_INCH must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates inbound rate limiting bounds.
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
