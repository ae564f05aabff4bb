// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
Package services adapts long-running components to suture's Service model.

HTTPServerService turns http.Server's blocking ListenAndServe into a
context-aware Serve:

	server := &http.Server{Addr: cfg.Server.Address(), Handler: router}
	tree.AddAPIService(services.NewHTTPServerService(server, 30*time.Second))

Canceling the supervisor context triggers http.Server.Shutdown, which stops
accepting connections and waits for in-flight comparisons up to the
shutdown timeout. A listener error (for example a port already in use) is
returned to suture, which restarts the service with backoff.
*/
package services
