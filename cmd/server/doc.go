// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package main is the entry point for the Offspot Metrics dashboard server.

The server sits between the hotspot metrics backend and the dashboard UI. It
keeps one dashboard state per client session (selected aggregation kind and
value, current page, loaded details document), derives the chart and table
views of every KPI, and pushes state changes to the session's WebSocket
connections.

# Application Architecture

Services run under a Suture v4 supervision tree:

	RootSupervisor ("offspot-metrics")
	├── DataSupervisor ("data-layer")
	│   └── Session janitor (evicts idle sessions)
	└── APISupervisor ("api-layer")
	    ├── WebSocket Hub (per-session state pushes)
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: .env, then Koanf v2 defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Backend: HTTP client, circuit breaker, optional aggregation cache
 4. WebSocket Hub and session manager
 5. Supervisor Tree
 6. HTTP Server

# Configuration

	BACKEND_ROOT_API=http://metrics.hotspot/api   # required
	BACKEND_CACHE_TTL=30s                         # 0 disables the shared cache
	HTTP_HOST=0.0.0.0
	HTTP_PORT=8080
	SESSION_IDLE_TIMEOUT=30m
	SESSION_MAX_SESSIONS=1000
	CORS_ORIGINS=*
	LOG_LEVEL=info
	LOG_FORMAT=json

See package config for the complete list.

# Signal Handling

On SIGINT or SIGTERM the root context is canceled. The HTTP server drains
in-flight requests (10s timeout), the hub closes its clients, and services
that did not stop in time are reported before exit.
*/
package main
