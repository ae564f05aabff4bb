// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package chart

import (
	"strings"
	"time"

	"gonum.org/v1/plot"
)

// TickMode selects the date ticks on the X axis.
type TickMode int

const (
	TickAuto TickMode = iota
	TickMonthly
	TickWeekly
	TickDaily
)

// maxCalendarTicks thins calendar ticks so rotated labels stay legible.
const maxCalendarTicks = 24

// TickModeFor picks monthly ticks for year-scale windows, weekly ticks for
// one month, and automatic ticks otherwise.
func TickModeFor(timeframe string) TickMode {
	switch {
	case strings.Contains(timeframe, "today 12-m"), strings.Contains(timeframe, "today 5-y"):
		return TickMonthly
	case strings.Contains(timeframe, "today 1-m"):
		return TickWeekly
	default:
		return TickAuto
	}
}

// marker returns the X axis tick marker for mode.
func (m TickMode) marker() plot.Ticker {
	switch m {
	case TickMonthly:
		return plot.TimeTicks{Ticker: calendarTicker{start: firstOfMonth, step: nextMonth}, Format: "Jan 2006", Time: plot.UTCUnixTime}
	case TickWeekly:
		return plot.TimeTicks{Ticker: calendarTicker{start: mondayOnOrAfter, step: nextWeek}, Format: "2006-01-02", Time: plot.UTCUnixTime}
	case TickDaily:
		return plot.TimeTicks{Ticker: calendarTicker{start: midnight, step: nextDay}, Format: "2006-01-02", Time: plot.UTCUnixTime}
	default:
		return plot.TimeTicks{Ticker: plot.DefaultTicks{}, Format: "2006-01-02", Time: plot.UTCUnixTime}
	}
}

// calendarTicker places a labelled tick on calendar boundaries between min and max.
type calendarTicker struct {
	start func(time.Time) time.Time
	step  func(time.Time) time.Time
}

func (c calendarTicker) Ticks(min, max float64) []plot.Tick {
	lo := plot.UTCUnixTime(min)
	hi := plot.UTCUnixTime(max)

	t := c.start(lo)
	for t.Before(lo) {
		t = c.step(t)
	}

	var ticks []plot.Tick
	for ; !t.After(hi); t = c.step(t) {
		// Any non-empty label marks a major tick; TimeTicks rewrites it.
		ticks = append(ticks, plot.Tick{Value: float64(t.Unix()), Label: "x"})
	}

	if n := len(ticks); n > maxCalendarTicks {
		every := (n + maxCalendarTicks - 1) / maxCalendarTicks
		for i := range ticks {
			if i%every != 0 {
				ticks[i].Label = ""
			}
		}
	}
	return ticks
}

func nextMonth(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
func nextWeek(t time.Time) time.Time  { return t.AddDate(0, 0, 7) }
func nextDay(t time.Time) time.Time   { return t.AddDate(0, 0, 1) }

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func mondayOnOrAfter(t time.Time) time.Time {
	t = midnight(t)
	offset := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}
