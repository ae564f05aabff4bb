// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trendcompare/config.yaml",
	"/etc/trendcompare/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultChartPath is where the HTML flow writes the comparison chart.
const DefaultChartPath = "static/google_trends_comparison.png"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5000,
			Host: "0.0.0.0",
			// A comparison may sleep through several backoff rounds
			// (5s + up to 120s + up to 120s), so the write timeout is generous.
			Timeout:     5 * time.Minute,
			Environment: "development",
		},
		Trends: TrendsConfig{
			BaseURL:              "https://trends.google.com",
			HL:                   "en-US",
			TZ:                   360,
			Geo:                  "",
			Category:             0,
			Property:             "",
			ConnectTimeout:       10 * time.Second,
			ReadTimeout:          25 * time.Second,
			ProxyURL:             "",
			RequestsPerMinute:    30,
			MaxConcurrentFetches: 4,
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialDelay:      5 * time.Second,
			JitterMin:         0.5,
			JitterMax:         1.5,
			RateLimitMaxDelay: 120 * time.Second,
			ErrorMaxDelay:     60 * time.Second,
		},
		Breaker: BreakerConfig{
			Enabled:               true,
			ConsecutiveRateLimits: 5,
			Interval:              time.Minute,
			Timeout:               2 * time.Minute,
		},
		Chart: ChartConfig{
			OutputPath: DefaultChartPath,
			WidthInch:  12,
			HeightInch: 6,
		},
		Security: SecurityConfig{
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then environment
// variables, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (if exists)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, RETRY_MAX_ATTEMPTS -> retry.max_attempts
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server mappings
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",

	// Trends client mappings
	"trends_base_url":               "trends.base_url",
	"trends_hl":                     "trends.hl",
	"trends_tz":                     "trends.tz",
	"trends_geo":                    "trends.geo",
	"trends_category":               "trends.category",
	"trends_property":               "trends.property",
	"trends_connect_timeout":        "trends.connect_timeout",
	"trends_read_timeout":           "trends.read_timeout",
	"trends_proxy_url":              "trends.proxy_url",
	"trends_requests_per_minute":    "trends.requests_per_minute",
	"trends_max_concurrent_fetches": "trends.max_concurrent_fetches",

	// Retry mappings
	"retry_max_attempts":         "retry.max_attempts",
	"retry_initial_delay":        "retry.initial_delay",
	"retry_jitter_min":           "retry.jitter_min",
	"retry_jitter_max":           "retry.jitter_max",
	"retry_rate_limit_max_delay": "retry.rate_limit_max_delay",
	"retry_error_max_delay":      "retry.error_max_delay",

	// Circuit breaker mappings
	"breaker_enabled":                 "breaker.enabled",
	"breaker_consecutive_rate_limits": "breaker.consecutive_rate_limits",
	"breaker_interval":                "breaker.interval",
	"breaker_timeout":                 "breaker.timeout",

	// Chart mappings
	"chart_output_path": "chart.output_path",
	"chart_width_inch":  "chart.width_inch",
	"chart_height_inch": "chart.height_inch",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - TRENDS_TZ -> trends.tz
//   - RETRY_INITIAL_DELAY -> retry.initial_delay
//   - CHART_OUTPUT_PATH -> chart.output_path
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so random environment variables cannot pollute config
	return ""
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
