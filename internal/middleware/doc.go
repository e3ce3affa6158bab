// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package middleware provides the HTTP middleware of the dashboard API.

Middleware here uses the func(http.HandlerFunc) http.HandlerFunc shape; the api
package adapts it to chi with a one-line wrapper.

  - RequestID: accepts or issues X-Request-ID and seeds the logging context
  - PrometheusMetrics: per-route request counts, latencies and in-flight gauge
  - Session: resolves X-Session-ID to a dashboard session, creating one when
    the id is missing or unknown, and echoes the id back

Ordering in the router:

	RealIP -> RequestID -> PrometheusMetrics -> Recoverer -> CORS -> RateLimit -> Session

PrometheusMetrics labels requests with the chi route pattern
("/api/v1/kpis/{kpiId}/values"), not the raw path, so label cardinality stays
bounded.
*/
package middleware
