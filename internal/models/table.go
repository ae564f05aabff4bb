// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
table.go - Schema-plus-rows JSON for TrendSeries

The JSON API returns the series in the layout produced by pandas'
DataFrame.to_json(orient="table"), so existing consumers of the service
keep working:

	{
	  "schema": {
	    "fields": [
	      {"name": "date", "type": "datetime"},
	      {"name": "python", "type": "integer"},
	      {"name": "javascript", "type": "integer"}
	    ],
	    "primaryKey": ["date"],
	    "pandas_version": "1.4.0"
	  },
	  "data": [
	    {"date": "2024-01-07T00:00:00.000", "python": 71, "javascript": 64}
	  ]
	}

Row keys are emitted in column order. Missing values are null, and a column
containing any null is typed "number" as pandas does for float columns.
Timestamps are UTC without a zone suffix.
*/

//nolint:staticcheck // File documentation, not package doc
package models

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Table layout constants.
const (
	TableIndexColumn   = "date"
	TablePartialColumn = "isPartial"
	TableTimeLayout    = "2006-01-02T15:04:05.000"
	tablePandasVersion = "1.4.0"
)

// ReservedColumn reports whether name collides with a non-keyword table column.
func ReservedColumn(name string) bool {
	return name == TableIndexColumn || name == TablePartialColumn
}

// TableField describes one column.
type TableField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableSchema lists columns and the index column.
type TableSchema struct {
	Fields        []TableField `json:"fields"`
	PrimaryKey    []string     `json:"primaryKey"`
	PandasVersion string       `json:"pandas_version"`
}

// TableRow is one data row whose keys marshal in column order.
type TableRow struct {
	columns []string
	values  []interface{}
}

// MarshalJSON writes the row as an object with keys in column order.
func (r TableRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is the JSON document returned by the comparison API.
type Table struct {
	Schema TableSchema `json:"schema"`
	Data   []TableRow  `json:"data"`
}

// NewTable converts a series into its table representation.
func NewTable(s *TrendSeries) *Table {
	columns := make([]string, 0, len(s.Keywords)+2)
	columns = append(columns, TableIndexColumn)
	columns = append(columns, s.Keywords...)

	fields := make([]TableField, 0, len(columns))
	fields = append(fields, TableField{Name: TableIndexColumn, Type: "datetime"})
	for i, kw := range s.Keywords {
		fields = append(fields, TableField{Name: kw, Type: columnType(s.Column(i))})
	}
	if s.HasPartial {
		columns = append(columns, TablePartialColumn)
		fields = append(fields, TableField{Name: TablePartialColumn, Type: "boolean"})
	}

	rows := make([]TableRow, 0, len(s.Points))
	for _, p := range s.Points {
		values := make([]interface{}, 0, len(columns))
		values = append(values, p.Time.UTC().Format(TableTimeLayout))
		for i := range s.Keywords {
			if i < len(p.Values) && p.Values[i].Valid {
				values = append(values, p.Values[i].Value)
			} else {
				values = append(values, nil)
			}
		}
		if s.HasPartial {
			values = append(values, p.Partial)
		}
		rows = append(rows, TableRow{columns: columns, values: values})
	}

	return &Table{
		Schema: TableSchema{
			Fields:        fields,
			PrimaryKey:    []string{TableIndexColumn},
			PandasVersion: tablePandasVersion,
		},
		Data: rows,
	}
}

func columnType(col []Interest) string {
	for _, v := range col {
		if !v.Valid {
			return "number"
		}
	}
	return "integer"
}

// MarshalTable serializes the series as a table document.
func (s *TrendSeries) MarshalTable() ([]byte, error) {
	return json.Marshal(NewTable(s))
}

// rawTable mirrors Table for decoding.
type rawTable struct {
	Schema TableSchema                  `json:"schema"`
	Data   []map[string]json.RawMessage `json:"data"`
}

// ParseTable decodes a table document back into a TrendSeries.
// Keyword order follows schema.fields.
func ParseTable(data []byte) (*TrendSeries, error) {
	var raw rawTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	index := TableIndexColumn
	if len(raw.Schema.PrimaryKey) > 0 {
		index = raw.Schema.PrimaryKey[0]
	}

	series := &TrendSeries{}
	for _, f := range raw.Schema.Fields {
		switch f.Name {
		case index:
		case TablePartialColumn:
			series.HasPartial = true
		default:
			series.Keywords = append(series.Keywords, f.Name)
		}
	}

	series.Points = make([]TrendPoint, 0, len(raw.Data))
	for i, row := range raw.Data {
		p, err := parseRow(row, index, series)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		series.Points = append(series.Points, p)
	}
	return series, nil
}

func parseRow(row map[string]json.RawMessage, index string, s *TrendSeries) (TrendPoint, error) {
	var p TrendPoint

	var ts string
	if err := json.Unmarshal(row[index], &ts); err != nil {
		return p, fmt.Errorf("%s: %w", index, err)
	}
	t, err := parseTableTime(ts)
	if err != nil {
		return p, err
	}
	p.Time = t

	p.Values = make([]Interest, len(s.Keywords))
	for i, kw := range s.Keywords {
		rawVal, ok := row[kw]
		if !ok || string(rawVal) == "null" {
			continue
		}
		var f float64
		if err := json.Unmarshal(rawVal, &f); err != nil {
			return p, fmt.Errorf("%s: %w", kw, err)
		}
		p.Values[i] = Interest{Value: int(math.Round(f)), Valid: true}
	}

	if s.HasPartial {
		if rawVal, ok := row[TablePartialColumn]; ok {
			if err := json.Unmarshal(rawVal, &p.Partial); err != nil {
				return p, fmt.Errorf("%s: %w", TablePartialColumn, err)
			}
		}
	}
	return p, nil
}

// parseTableTime accepts the table layout with or without a zone suffix.
func parseTableTime(s string) (time.Time, error) {
	for _, layout := range []string{TableTimeLayout, TableTimeLayout + "Z07:00", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
