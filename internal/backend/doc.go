// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package backend talks to the metrics backend that produces pre-aggregated KPI
values.

The only consumed endpoint is:

	GET {BACKEND_ROOT_API}/aggregations/{kind}

which returns the AggregationDetails document for one aggregation kind.

Layers, from the wire up:
  - Client: HTTP transport with an outbound token bucket (golang.org/x/time/rate),
    exponential backoff on HTTP 429 honoring Retry-After, JSON schema validation
    (gojsonschema) and decoding (goccy/go-json)
  - CircuitBreakerClient: sony/gobreaker protection with Prometheus state metrics
  - CachingFetcher: short-lived shared cache so many dashboard sessions asking
    for the same kind cost one backend call

Every layer implements Fetcher, so the store depends on the interface only.
Failures are returned as wrapped errors; ErrUnexpectedStatus and
ErrInvalidPayload can be matched with errors.Is.
*/
package backend
