// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package api exposes the dashboard state over HTTP and WebSocket.

Every browser tab holds a dashboard session, identified by the X-Session-ID
header (or the session query parameter for WebSocket upgrades). The session
owns one store.Store; the handlers read and mutate that store and render the
per-KPI views the dashboard cards display.

# Routes

	GET  /health/live                     liveness
	GET  /health/ready                    backend reachable through the breaker
	GET  /metrics                         Prometheus
	GET  /api/v1/state                    root store snapshot
	PUT  /api/v1/aggregation/kind         {"kind":"W"}, ?wait=true to await the fetch
	POST /api/v1/aggregation/refresh      re-fetch the current kind
	PUT  /api/v1/aggregation/value        {"value":"2024-03-07"}
	POST /api/v1/aggregation/next         409 at the most recent value
	POST /api/v1/aggregation/previous     409 at the oldest value
	PUT  /api/v1/page                     {"page":"total_usage"}
	GET  /api/v1/kpis/{card}              total-usage, package-popularity,
	                                      popular-pages, shared-files, uptime
	GET  /api/v1/kpis/{kpiId}/values      raw values, ?agg_value= for one entry
	GET  /api/v1/colors                   ?package= assigns and returns one color
	GET  /api/v1/labels/date              ?kind=&value=
	GET  /api/v1/ws                       state_changed pushes

# Responses

All JSON bodies use one envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "session_id": "...", ...}}
	{"success": false, "error": {"code": "CONFLICT", "message": "..."}, "meta": {...}}

Error codes are BAD_REQUEST, VALIDATION_FAILED, NOT_FOUND, CONFLICT,
TOO_MANY_REQUESTS, SERVICE_UNAVAILABLE and INTERNAL_ERROR.
*/
package api
