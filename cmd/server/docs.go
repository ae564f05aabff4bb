// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

// @title Trendcompare API
// @version 1.0
// @description Compares relative Google Trends search interest for two to five keywords.
// @description
// @description ## Rate Limiting
// @description
// @description Comparison endpoints allow 60 requests per minute per client IP by default.
// @description Requests over the limit receive `429` with `{"error": "Too many requests. Please slow down."}`.
// @description Upstream throttling by Google surfaces as `429` after the retry budget is spent.
// @description
// @description ## Error Responses
// @description
// @description Comparison errors use a single-field object:
// @description ```json
// @description { "error": "Human-readable error message" }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/trendcompare/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /
// @schemes http https
//
// @tag.name Compare
// @tag.description Keyword interest comparison
//
// @tag.name Core
// @tag.description Health checks
package main
