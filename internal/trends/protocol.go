// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package trends

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trendcompare/internal/models"
)

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type widget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type timelinePoint struct {
	Time          string `json:"time"`
	FormattedTime string `json:"formattedTime"`
	Value         []int  `json:"value"`
	IsPartial     *bool  `json:"isPartial,omitempty"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []timelinePoint `json:"timelineData"`
	} `json:"default"`
}

// series converts timelineData into a normalized TrendSeries. Value[i]
// belongs to keywords[i]; missing trailing values are left invalid.
func (r *multilineResponse) series(keywords []string) (*models.TrendSeries, error) {
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	s := &models.TrendSeries{Keywords: kw}

	data := r.Default.TimelineData
	if len(data) == 0 {
		return s, nil
	}

	s.Points = make([]models.TrendPoint, 0, len(data))
	for _, tp := range data {
		secs, err := strconv.ParseInt(tp.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timeline timestamp %q: %w", tp.Time, err)
		}
		if len(tp.Value) > len(keywords) {
			return nil, fmt.Errorf("timeline row %q has %d values for %d keywords",
				tp.FormattedTime, len(tp.Value), len(keywords))
		}

		values := make([]models.Interest, len(keywords))
		for i, v := range tp.Value {
			values[i] = models.Interest{Value: v, Valid: true}
		}

		p := models.TrendPoint{Time: time.Unix(secs, 0).UTC(), Values: values}
		if tp.IsPartial != nil {
			s.HasPartial = true
			p.Partial = *tp.IsPartial
		}
		s.Points = append(s.Points, p)
	}

	s.Normalize()
	return s, nil
}
