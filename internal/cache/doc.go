// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

// Package cache provides a thread-safe TTL cache.
//
// Two components build on it:
//
//   - backend.CachingFetcher keeps recent aggregation details per kind, so several
//     dashboard sessions switching to the same kind share one backend request.
//   - session.Manager stores one aggregation store per session id; the eviction
//     callback closes stores whose session went idle.
//
// Hits, misses and size are exported as cache_* Prometheus metrics labelled by the
// cache name given with WithName.
package cache
