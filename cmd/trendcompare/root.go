// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trendcompare/internal/chart"
	"github.com/tomtom215/trendcompare/internal/config"
	"github.com/tomtom215/trendcompare/internal/logging"
	"github.com/tomtom215/trendcompare/internal/models"
	"github.com/tomtom215/trendcompare/internal/trends"
	"github.com/tomtom215/trendcompare/internal/validation"
)

// DefaultOutput is the chart file written when --output is not given.
const DefaultOutput = "google_trends_comparison.png"

// MsgNoData is printed, with a zero exit status, when Google has no data.
const MsgNoData = "No data found for the given keywords."

// Fetcher fetches interest over time for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q models.Query) (*models.TrendSeries, error)
}

// ChartWriter draws a series to a PNG file.
type ChartWriter interface {
	RenderWithTicks(series *models.TrendSeries, mode chart.TickMode, path string) error
}

// Builder creates the fetcher and chart writer from the loaded config.
type Builder func(cfg *config.Config) (Fetcher, ChartWriter)

var version = "dev"

type options struct {
	extra     [3]string // --keyword3..--keyword5
	timeframe string
	output    string
	verbose   bool
}

// defaultBuilder makes one attempt, after the usual pacing delay, with no
// circuit breaker: a CLI run is a single comparison.
func defaultBuilder(cfg *config.Config) (Fetcher, ChartWriter) {
	policy := trends.RetryPolicyFrom(&cfg.Retry)
	policy.MaxAttempts = 1

	limiter := trends.NewLimiter(cfg.Trends.RequestsPerMinute)
	factory := trends.NewClientFactory(trends.ClientConfigFrom(&cfg.Trends), limiter)
	return trends.NewFetcher(factory, policy), chart.NewRenderer(&cfg.Chart)
}

func newRootCmd(build Builder) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "trendcompare KEYWORD1 KEYWORD2",
		Short: "Compare Google Trends interest for keywords",
		Long: `trendcompare fetches Google Trends interest over time for two to five
keywords, prints a preview of the data and saves a line chart with daily ticks.

Example usage:
  trendcompare python javascript
  trendcompare python javascript --keyword3 go --timeframe "today 3-m"
  trendcompare rust zig --timeframe "2024-01-01 2024-06-30" --output langs.png`,
		Args:          cobra.ExactArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, build, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.extra[0], "keyword3", "", "third keyword")
	f.StringVar(&opts.extra[1], "keyword4", "", "fourth keyword")
	f.StringVar(&opts.extra[2], "keyword5", "", "fifth keyword")
	f.StringVarP(&opts.timeframe, "timeframe", "t", models.DefaultTimeframe,
		`Google Trends timeframe ("today 12-m", "today 5-y", "all", "YYYY-MM-DD YYYY-MM-DD")`)
	f.StringVarP(&opts.output, "output", "o", DefaultOutput, "chart output file (.png)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log fetch progress to stderr")

	return cmd
}

// buildQuery collects positional and flag keywords, skipping empty flags.
func buildQuery(args []string, opts *options) (models.Query, error) {
	keywords := make([]string, 0, models.MaxKeywords)
	for _, k := range args {
		keywords = append(keywords, strings.TrimSpace(k))
	}
	for _, k := range opts.extra {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	q := models.NewQuery(keywords, strings.TrimSpace(opts.timeframe))
	if ve := validation.ValidateStruct(q); ve != nil {
		return q, errors.New(validation.QueryMessage(ve))
	}
	return q, nil
}

func run(cmd *cobra.Command, build Builder, opts *options, args []string) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})

	q, err := buildQuery(args, opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fetcher, writer := build(cfg)
	out := cmd.OutOrStdout()

	series, err := fetcher.Fetch(ctx, q)
	if errors.Is(err, trends.ErrEmptyResult) {
		fmt.Fprintln(out, MsgNoData)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Trends data fetched:")
	fmt.Fprintln(out, previewTable(series, previewRows))
	if series.Empty() {
		fmt.Fprintln(out, MsgNoData)
		return nil
	}
	fmt.Fprintf(out, "Columns in trends data: %s\n", strings.Join(series.Keywords, ", "))
	fmt.Fprintf(out, "Data range: %s to %s\n", series.Start().Format(dateLayout), series.End().Format(dateLayout))

	if err := writer.RenderWithTicks(series, chart.TickDaily, opts.output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Plot saved as '%s'.\n", opts.output)
	return nil
}
