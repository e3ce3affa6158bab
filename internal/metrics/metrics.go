// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Backend aggregation fetches
// - Circuit breaker state
// - Cache efficiency
// - Dashboard sessions and WebSocket connections

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Backend Metrics
	BackendFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_fetch_duration_seconds",
			Help:    "Duration of aggregation details fetches against the metrics backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agg_kind"},
	)

	BackendFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_fetch_total",
			Help: "Total number of aggregation details fetches by outcome",
		},
		[]string{"agg_kind", "result"}, // result: "success", "error", "invalid_payload"
	)

	BackendRateLimitRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backend_rate_limit_retries_total",
			Help: "Total number of retries after HTTP 429 from the metrics backend",
		},
	)

	// Store Metrics
	StaleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_stale_responses_discarded_total",
			Help: "Fetch completions dropped because a newer fetch was issued",
		},
	)

	KpiLookupAmbiguous = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_lookup_ambiguous_total",
			Help: "KPI lookups that matched more than one entry and were treated as absent",
		},
		[]string{"lookup", "kpi_id"}, // lookup: "kpi", "value"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current number of entries in cache",
		},
		[]string{"cache_type"},
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Current number of dashboard sessions holding a store",
		},
	)

	SessionsEvicted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_sessions_evicted_total",
			Help: "Total number of evicted dashboard sessions",
		},
		[]string{"reason"}, // reason: "idle", "removed", "shutdown"
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages queued for delivery",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped on full buffers",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBackendFetch records the duration and outcome of one aggregation fetch.
func RecordBackendFetch(aggKind, result string, duration time.Duration) {
	BackendFetchDuration.WithLabelValues(aggKind).Observe(duration.Seconds())
	BackendFetchTotal.WithLabelValues(aggKind, result).Inc()
}

// RecordCacheAccess records a hit or miss for the named cache.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordAmbiguousLookup counts a lookup that matched several entries.
func RecordAmbiguousLookup(lookup, kpiID string) {
	KpiLookupAmbiguous.WithLabelValues(lookup, kpiID).Inc()
}
