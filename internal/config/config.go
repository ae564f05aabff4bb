// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
config.go - Application Configuration

Configuration is layered (lowest to highest priority):
 1. Built-in defaults (defaultConfig)
 2. YAML config file (CONFIG_PATH, config.yaml, /etc/trendcompare/config.yaml)
 3. Environment variables (see envMappings in koanf.go)

Sections:
  - Server:   HTTP listener and timeouts
  - Trends:   Google Trends client (locale, timezone, proxy, pacing)
  - Retry:    retry controller policy around each trends fetch
  - Breaker:  circuit breaker guarding the trends endpoint
  - Chart:    output path and canvas size of the rendered comparison
  - Security: CORS and inbound rate limiting
  - Logging:  zerolog level and format
*/

//nolint:staticcheck // File documentation, not package doc
package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Trends   TrendsConfig   `koanf:"trends"`
	Retry    RetryConfig    `koanf:"retry"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Chart    ChartConfig    `koanf:"chart"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// TrendsConfig configures the Google Trends client.
//
// HL and TZ are passed straight through as the hl and tz query parameters.
// TZ is the offset from UTC in minutes with inverted sign (360 = UTC-6).
type TrendsConfig struct {
	BaseURL  string `koanf:"base_url"`
	HL       string `koanf:"hl"`
	TZ       int    `koanf:"tz"`
	Geo      string `koanf:"geo"`
	Category int    `koanf:"category"`
	Property string `koanf:"property"` // gprop: "", images, news, youtube, froogle

	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`

	// ProxyURL overrides HTTP_PROXY/HTTPS_PROXY for trends requests only.
	ProxyURL string `koanf:"proxy_url"`

	// RequestsPerMinute paces outbound requests across all callers (0 disables pacing).
	RequestsPerMinute int `koanf:"requests_per_minute"`

	// MaxConcurrentFetches bounds comparisons talking to Google at once.
	MaxConcurrentFetches int `koanf:"max_concurrent_fetches"`
}

// RetryConfig is the backoff policy of the retry controller.
type RetryConfig struct {
	MaxAttempts       int           `koanf:"max_attempts"`
	InitialDelay      time.Duration `koanf:"initial_delay"`
	JitterMin         float64       `koanf:"jitter_min"`
	JitterMax         float64       `koanf:"jitter_max"`
	RateLimitMaxDelay time.Duration `koanf:"rate_limit_max_delay"`
	ErrorMaxDelay     time.Duration `koanf:"error_max_delay"`
}

// BreakerConfig configures the circuit breaker in front of Google Trends.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// ConsecutiveRateLimits opens the circuit after this many 429s in a row.
	ConsecutiveRateLimits uint32        `koanf:"consecutive_rate_limits"`
	Interval              time.Duration `koanf:"interval"`
	Timeout               time.Duration `koanf:"timeout"`
}

// ChartConfig configures rendering of the comparison chart.
type ChartConfig struct {
	OutputPath string  `koanf:"output_path"`
	WidthInch  float64 `koanf:"width_inch"`
	HeightInch float64 `koanf:"height_inch"`
}

// SecurityConfig holds inbound protection settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Address returns the host:port the HTTP server listens on.
func (s ServerConfig) Address() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads configuration using the layered approach:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}
