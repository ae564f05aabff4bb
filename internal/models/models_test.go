// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func iv(v int) Interest { return Interest{Value: v, Valid: true} }

func TestNewQueryDefaultsTimeframe(t *testing.T) {
	q := NewQuery([]string{"a", "b"}, "")
	if q.Timeframe != DefaultTimeframe {
		t.Errorf("Timeframe = %q, want %q", q.Timeframe, DefaultTimeframe)
	}

	kw := []string{"a", "b"}
	q = NewQuery(kw, "today 1-m")
	kw[0] = "mutated"
	if q.Keywords[0] != "a" {
		t.Error("NewQuery must copy keywords")
	}
}

func TestNormalizeSortsAndDeduplicates(t *testing.T) {
	s := &TrendSeries{
		Keywords: []string{"a"},
		Points: []TrendPoint{
			{Time: day(3), Values: []Interest{iv(30)}},
			{Time: day(1), Values: []Interest{iv(10)}},
			{Time: day(3), Values: []Interest{iv(99)}},
			{Time: day(2), Values: []Interest{iv(20)}},
		},
	}
	s.Normalize()

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	for i, want := range []int{10, 20, 30} {
		if got := s.Points[i].Values[0].Value; got != want {
			t.Errorf("row %d value = %d, want %d", i, got, want)
		}
	}
	if !s.Start().Equal(day(1)) || !s.End().Equal(day(3)) {
		t.Errorf("range = %v..%v", s.Start(), s.End())
	}
}

func TestStripPartialMarker(t *testing.T) {
	s := &TrendSeries{
		Keywords:   []string{"a"},
		HasPartial: true,
		Points:     []TrendPoint{{Time: day(1), Values: []Interest{iv(5)}, Partial: true}},
	}
	s.StripPartialMarker()

	if s.HasPartial || s.Points[0].Partial {
		t.Error("partial marker not stripped")
	}
	if s.Points[0].Values[0].Value != 5 {
		t.Error("values must survive stripping")
	}
}

func TestEmpty(t *testing.T) {
	var nilSeries *TrendSeries
	if !nilSeries.Empty() {
		t.Error("nil series should be empty")
	}
	if !(&TrendSeries{Keywords: []string{"a"}}).Empty() {
		t.Error("series without rows should be empty")
	}
}

func TestTableRoundTrip(t *testing.T) {
	in := &TrendSeries{
		Keywords: []string{"python", "javascript"},
		Points: []TrendPoint{
			{Time: day(7), Values: []Interest{iv(71), iv(64)}},
			{Time: day(14), Values: []Interest{iv(100), iv(58)}},
		},
	}

	data, err := in.MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable() error = %v", err)
	}

	out, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}

	if strings.Join(out.Keywords, ",") != "python,javascript" {
		t.Fatalf("Keywords = %v", out.Keywords)
	}
	if out.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", out.Len())
	}
	for r := range in.Points {
		if !out.Points[r].Time.Equal(in.Points[r].Time) {
			t.Errorf("row %d time = %v, want %v", r, out.Points[r].Time, in.Points[r].Time)
		}
		for c := range in.Keywords {
			if out.Points[r].Values[c] != in.Points[r].Values[c] {
				t.Errorf("row %d col %d = %+v, want %+v", r, c, out.Points[r].Values[c], in.Points[r].Values[c])
			}
		}
	}
}

func TestTableLayout(t *testing.T) {
	s := &TrendSeries{
		Keywords: []string{"b", "a"},
		Points: []TrendPoint{
			{Time: day(7), Values: []Interest{iv(1), {}}},
		},
	}

	data, err := s.MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable() error = %v", err)
	}
	got := string(data)

	// Row keys follow column order, not alphabetical order
	wantRow := `{"date":"2024-01-07T00:00:00.000","b":1,"a":null}`
	if !strings.Contains(got, wantRow) {
		t.Errorf("row = %s, want to contain %s", got, wantRow)
	}

	var doc struct {
		Schema struct {
			Fields     []TableField `json:"fields"`
			PrimaryKey []string     `json:"primaryKey"`
		} `json:"schema"`
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Schema.Fields) != 3 {
		t.Fatalf("fields = %v", doc.Schema.Fields)
	}
	if doc.Schema.Fields[0] != (TableField{Name: "date", Type: "datetime"}) {
		t.Errorf("index field = %+v", doc.Schema.Fields[0])
	}
	if doc.Schema.Fields[1].Type != "integer" {
		t.Errorf("complete column type = %q, want integer", doc.Schema.Fields[1].Type)
	}
	if doc.Schema.Fields[2].Type != "number" {
		t.Errorf("column with nulls type = %q, want number", doc.Schema.Fields[2].Type)
	}
	if len(doc.Schema.PrimaryKey) != 1 || doc.Schema.PrimaryKey[0] != "date" {
		t.Errorf("primaryKey = %v", doc.Schema.PrimaryKey)
	}
}

func TestTableEmptySeries(t *testing.T) {
	data, err := (&TrendSeries{Keywords: []string{"a", "b"}}).MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable() error = %v", err)
	}
	if !strings.Contains(string(data), `"data":[]`) {
		t.Errorf("empty series should have an empty data list: %s", data)
	}
}

func TestTablePartialColumn(t *testing.T) {
	s := &TrendSeries{
		Keywords:   []string{"a"},
		HasPartial: true,
		Points:     []TrendPoint{{Time: day(1), Values: []Interest{iv(3)}, Partial: true}},
	}
	data, err := s.MarshalTable()
	if err != nil {
		t.Fatalf("MarshalTable() error = %v", err)
	}
	out, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if !out.HasPartial || !out.Points[0].Partial {
		t.Error("isPartial column lost in round trip")
	}
	if len(out.Keywords) != 1 {
		t.Errorf("isPartial must not become a keyword: %v", out.Keywords)
	}
}

func TestParseTableErrors(t *testing.T) {
	tests := []string{
		`not json`,
		`{"schema":{"fields":[{"name":"date"}],"primaryKey":["date"]},"data":[{"date":"yesterday"}]}`,
		`{"schema":{"fields":[{"name":"date"},{"name":"a"}],"primaryKey":["date"]},"data":[{"date":"2024-01-01T00:00:00.000","a":"high"}]}`,
	}
	for _, in := range tests {
		if _, err := ParseTable([]byte(in)); err == nil {
			t.Errorf("ParseTable(%s) expected error", in)
		}
	}
}

func TestParseTableAcceptsZoneSuffix(t *testing.T) {
	in := `{"schema":{"fields":[{"name":"date","type":"datetime"},{"name":"a","type":"integer"}],"primaryKey":["date"]},
"data":[{"date":"2024-01-01T00:00:00.000Z","a":4}]}`
	out, err := ParseTable([]byte(in))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if !out.Points[0].Time.Equal(day(1)) {
		t.Errorf("time = %v", out.Points[0].Time)
	}
}

func TestReservedColumn(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{TableIndexColumn, true},
		{TablePartialColumn, true},
		{"Date", false},
		{"calendar", false},
	}
	for _, tt := range tests {
		if got := ReservedColumn(tt.name); got != tt.want {
			t.Errorf("ReservedColumn(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
