// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/trendcompare/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestValidateStruct_Query(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		tf       string
		wantMsg  string
	}{
		{name: "two keywords", keywords: []string{"python", "javascript"}},
		{name: "five keywords", keywords: []string{"a", "b", "c", "d", "e"}, tf: "today 5-y"},
		{name: "explicit range", keywords: []string{"a", "b"}, tf: "2024-01-01 2024-03-31"},
		{name: "one keyword", keywords: []string{"a"}, wantMsg: MsgTooFewKeywords},
		{name: "no keywords", keywords: nil, wantMsg: MsgTooFewKeywords},
		{name: "six keywords", keywords: []string{"a", "b", "c", "d", "e", "f"}, wantMsg: MsgTooManyKeywords},
		{name: "blank keyword", keywords: []string{"a", "  "}, wantMsg: MsgBlankKeyword},
		{name: "empty keyword", keywords: []string{"", "b"}, wantMsg: MsgBlankKeyword},
		{name: "bad timeframe", keywords: []string{"a", "b"}, tf: "last week", wantMsg: MsgInvalidTimeframe},
		{name: "duplicate keyword", keywords: []string{"go", "go"}, wantMsg: MsgDuplicateKeyword},
		{name: "index column", keywords: []string{"date", "calendar"}, wantMsg: MsgReservedKeyword},
		{name: "partial column", keywords: []string{"a", " isPartial "}, wantMsg: MsgReservedKeyword},
		{name: "reserved is case sensitive", keywords: []string{"Date", "calendar"}},
		{name: "keyword error wins", keywords: []string{"a"}, tf: "bogus", wantMsg: MsgTooFewKeywords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := models.NewQuery(tt.keywords, tt.tf)
			err := ValidateStruct(&q)

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}
			if got := QueryMessage(err); got != tt.wantMsg {
				t.Errorf("QueryMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Fields(t *testing.T) {
	q := models.NewQuery([]string{"a"}, "nope")
	err := ValidateStruct(&q)
	if err == nil {
		t.Fatal("expected error")
	}

	tags := map[string]string{}
	for _, e := range err.Errors() {
		tags[e.Field()] = e.Tag()
	}
	if tags["Keywords"] != "min" {
		t.Errorf("Keywords tag = %q, want min", tags["Keywords"])
	}
	if tags["Timeframe"] != "timeframe" {
		t.Errorf("Timeframe tag = %q, want timeframe", tags["Timeframe"])
	}
	if !strings.Contains(err.Error(), "Timeframe must be a recognized timeframe") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidateStruct_BlankKeywordTag(t *testing.T) {
	q := models.NewQuery([]string{"python", "\t "}, "")
	err := ValidateStruct(&q)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Errors()[0]; got.Field() != "Keywords[1]" || got.Tag() != "notblank" {
		t.Errorf("error = %s/%s, want Keywords[1]/notblank", got.Field(), got.Tag())
	}
}

func TestQueryMessage_Nil(t *testing.T) {
	if got := QueryMessage(nil); got != "" {
		t.Errorf("QueryMessage(nil) = %q, want empty", got)
	}
}
