// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tomtom215/trendcompare/internal/models"
)

const (
	previewRows = 5
	dateLayout  = "2006-01-02"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// previewTable renders the first n rows as date plus one column per keyword.
// Missing values print as NaN.
func previewTable(s *models.TrendSeries, n int) string {
	headers := append([]string{"date"}, s.Keywords...)

	rows := make([][]string, 0, n)
	for i, p := range s.Points {
		if i == n {
			break
		}
		row := make([]string, 0, len(headers))
		row = append(row, p.Time.Format(dateLayout))
		for k := range s.Keywords {
			cell := "NaN"
			if k < len(p.Values) && p.Values[k].Valid {
				cell = strconv.Itoa(p.Values[k].Value)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}
