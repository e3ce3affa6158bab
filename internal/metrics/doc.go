// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package metrics provides Prometheus instrumentation for the dashboard service.

All collectors are registered on the default registry through promauto and are
exposed by the /metrics route of the API router.

Metric Families:

  - api_*: request count, latency and in-flight requests (middleware.PrometheusMetrics)
  - backend_*: aggregation fetch latency and outcome, 429 retries
  - circuit_breaker_*: state of the backend circuit breaker
  - cache_*: aggregation details cache efficiency
  - store_* and kpi_lookup_*: stale fetch completions and ambiguous KPI lookups
  - dashboard_sessions_*: live and evicted sessions
  - websocket_*: connections and pushed messages

Label values are bounded: endpoints use chi route patterns, aggregation kinds are
the four single-letter codes and KPI ids come from the backend's fixed set.
*/
package metrics
