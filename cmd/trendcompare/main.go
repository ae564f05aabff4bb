// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

// Command trendcompare compares Google Trends interest for two to five
// keywords from the command line and saves the result as a PNG chart.
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Stderr.WriteString("Warning: " + err.Error() + "\n")
	}

	if err := newRootCmd(defaultBuilder).Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
