// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package services provides suture.Service wrappers for the service components.

Each wrapper translates a component lifecycle (ListenAndServe, a run loop, a
periodic task) into suture's context-aware Serve pattern and names itself
through fmt.Stringer for supervisor log lines.

  - HTTPServerService: *http.Server with graceful shutdown
  - WebSocketHubService: websocket.Hub run loop
  - SessionJanitorService: periodic eviction of idle dashboard sessions

Wrappers depend on small interfaces (HTTPServer, ContextHub, Sweeper) rather
than the concrete types, so they are tested with fakes.

	tree.AddDataService(services.NewSessionJanitorService(sessions, time.Minute))
	tree.AddAPIService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), 10*time.Second))
*/
package services
