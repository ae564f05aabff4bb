// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

// Package chart renders a TrendSeries as a PNG line chart.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/colornames"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/metrics"
	"github.com/tomtom215/trendcompare/internal/models"
)

// Chart text.
const (
	Title  = "Google Trends Comparison"
	XLabel = "Date"
	YLabel = "Interest Over Time"
)

// Palette colors keywords in order, cycling when there are more keywords than colors.
var Palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// ColorFor returns the line color of the i-th keyword.
func ColorFor(i int) color.Color {
	return Palette[i%len(Palette)]
}

// ErrNoData is wrapped by RenderError when the series has no rows.
var ErrNoData = errors.New("series has no data to plot")

// RenderError reports a failure to draw or write the chart.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render chart to %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer draws comparison charts.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a Renderer sized from cfg, defaulting to 12x6 inches.
func NewRenderer(cfg *config.ChartConfig) *Renderer {
	w, h := 12.0, 6.0
	if cfg != nil && cfg.WidthInch > 0 {
		w = cfg.WidthInch
	}
	if cfg != nil && cfg.HeightInch > 0 {
		h = cfg.HeightInch
	}
	return &Renderer{width: vg.Length(w) * vg.Inch, height: vg.Length(h) * vg.Inch}
}

// Render draws series with ticks chosen from timeframe and writes a PNG to path.
func (r *Renderer) Render(series *models.TrendSeries, timeframe, path string) error {
	return r.RenderWithTicks(series, TickModeFor(timeframe), path)
}

// RenderWithTicks draws series with the given tick mode and writes a PNG to path.
// The file is replaced atomically.
func (r *Renderer) RenderWithTicks(series *models.TrendSeries, mode TickMode, path string) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordChartRender(time.Since(start), err)
	}()

	if series.Empty() {
		return &RenderError{Path: path, Err: ErrNoData}
	}

	p, err := build(series, mode)
	if err != nil {
		return &RenderError{Path: path, Err: err}
	}

	if err := r.write(p, path); err != nil {
		return &RenderError{Path: path, Err: err}
	}

	logging.Debug().
		Str("path", path).
		Int("rows", series.Len()).
		Strs("keywords", series.Keywords).
		Msg("Chart rendered")
	return nil
}

func build(series *models.TrendSeries, mode TickMode) (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.X.Label.Text = XLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Min = 0

	p.X.Tick.Marker = mode.marker()
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	grid := plotter.NewGrid()
	grid.Vertical.Color = colornames.Lightgray
	grid.Vertical.Width = vg.Points(0.7)
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Color = colornames.Lightgray
	grid.Horizontal.Width = vg.Points(0.7)
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.TextStyle.Font.Size = vg.Points(10)

	for i, kw := range series.Keywords {
		runs := segments(series, i)
		for j, xys := range runs {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("keyword %q: %w", kw, err)
			}
			line.LineStyle.Width = vg.Points(2)
			line.LineStyle.Color = ColorFor(i)
			p.Add(line)
			if j == 0 {
				p.Legend.Add(kw, line)
			}
		}
	}

	return p, nil
}

// segments splits keyword i into runs of valid values so that gaps in the
// data break the line instead of being bridged.
func segments(series *models.TrendSeries, i int) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs

	col := series.Column(i)
	for r, v := range col {
		if !v.Valid {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{
			X: float64(series.Points[r].Time.Unix()),
			Y: float64(v.Value),
		})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// write renders p to a temp file next to path and renames it into place.
func (r *Renderer) write(p *plot.Plot, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".chart-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := wt.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set chart permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move chart into place: %w", err)
	}
	return nil
}

// Writable reports whether the chart directory for path accepts new files.
func Writable(path string) bool {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
