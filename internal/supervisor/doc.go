// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package supervisor runs the long-lived services of the dashboard backend under
a suture v4 supervisor tree.

	offspot-metrics
	├── data-layer
	│   └── SessionJanitorService
	└── api-layer
	    ├── WebSocketHubService
	    └── HTTPServerService

Each layer counts failures on its own, so a WebSocket hub that keeps crashing
backs off without stopping the HTTP server, and the other way around.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSessionJanitorService(sessions, time.Minute))
	tree.AddAPIService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-errCh

# Failure Handling

suture keeps a decaying failure counter per supervisor. Once it passes
FailureThreshold the supervisor waits FailureBackoff before the next restart;
the counter halves every FailureDecay seconds. A Serve method that returns nil
is not restarted; one that returns an error is.

Supervisor events (start, failure, backoff, timeout) are logged through
sutureslog.

# Shutdown

Canceling the context given to Serve stops every service. Services that do not
return within ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
