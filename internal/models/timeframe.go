// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeframeKind classifies a timeframe descriptor.
type TimeframeKind int

// Timeframe kinds.
const (
	TimeframeAll      TimeframeKind = iota // "all", "2004-present"
	TimeframeRelative                      // "today 12-m", "today 5-y"
	TimeframeRecent                        // "now 7-d", "now 4-H"
	TimeframeRange                         // "2024-01-01 2024-06-30"
)

const dateLayout = "2006-01-02"

// Timeframe is a parsed timeframe descriptor.
type Timeframe struct {
	Raw   string
	Kind  TimeframeKind
	N     int
	Unit  byte // 'm', 'y' for relative; 'd', 'H' for recent
	Start time.Time
	End   time.Time
}

// ParseTimeframe parses one of the recognized timeframe forms:
//
//	all | 2004-present
//	today N-m | today N-y
//	now N-d | now N-H
//	YYYY-MM-DD YYYY-MM-DD
func ParseTimeframe(raw string) (Timeframe, error) {
	tf := Timeframe{Raw: raw}
	s := strings.TrimSpace(raw)

	switch s {
	case "all", "2004-present":
		tf.Kind = TimeframeAll
		return tf, nil
	}

	prefix, rest, ok := strings.Cut(s, " ")
	if !ok {
		return tf, fmt.Errorf("unrecognized timeframe %q", raw)
	}

	switch prefix {
	case "today":
		n, unit, err := parseCountUnit(rest, "my")
		if err != nil {
			return tf, fmt.Errorf("timeframe %q: %w", raw, err)
		}
		tf.Kind, tf.N, tf.Unit = TimeframeRelative, n, unit
		return tf, nil
	case "now":
		n, unit, err := parseCountUnit(rest, "dH")
		if err != nil {
			return tf, fmt.Errorf("timeframe %q: %w", raw, err)
		}
		tf.Kind, tf.N, tf.Unit = TimeframeRecent, n, unit
		return tf, nil
	}

	start, err := time.Parse(dateLayout, prefix)
	if err != nil {
		return tf, fmt.Errorf("unrecognized timeframe %q", raw)
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(rest))
	if err != nil {
		return tf, fmt.Errorf("timeframe %q: invalid end date", raw)
	}
	if end.Before(start) {
		return tf, fmt.Errorf("timeframe %q: end date before start date", raw)
	}
	tf.Kind, tf.Start, tf.End = TimeframeRange, start, end
	return tf, nil
}

// parseCountUnit parses "N-u" where u is one of units and N >= 1.
func parseCountUnit(s, units string) (int, byte, error) {
	num, unit, ok := strings.Cut(s, "-")
	if !ok || len(unit) != 1 || !strings.Contains(units, unit) {
		return 0, 0, fmt.Errorf("expected N-<%s>", strings.Join(strings.Split(units, ""), "|"))
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("count must be a positive integer")
	}
	return n, unit[0], nil
}

// ValidTimeframe reports whether raw is a recognized timeframe.
func ValidTimeframe(raw string) bool {
	_, err := ParseTimeframe(raw)
	return err == nil
}

// Span approximates the covered duration. "all" spans back to 2004.
func (tf Timeframe) Span(now time.Time) time.Duration {
	const day = 24 * time.Hour
	switch tf.Kind {
	case TimeframeRelative:
		if tf.Unit == 'y' {
			return time.Duration(tf.N) * 365 * day
		}
		return time.Duration(tf.N) * 30 * day
	case TimeframeRecent:
		if tf.Unit == 'H' {
			return time.Duration(tf.N) * time.Hour
		}
		return time.Duration(tf.N) * day
	case TimeframeRange:
		return tf.End.Sub(tf.Start) + day
	default:
		return now.Sub(time.Date(2004, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
}
