// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

/*
Package supervisor runs the server's long-lived services under suture v4.

	root ("trendcompare")
	└── api-layer
	    └── http-server

Supervisor events (service start, panic, restart, backoff) are written
through sutureslog to an slog.Logger. Pass logging.NewSlogLogger() so they
land in the same zerolog stream as the rest of the application.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 30*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Serve returns once every child has stopped or the shutdown timeout has
passed. UnstoppedServiceReport names anything that ignored cancellation.
*/
package supervisor
