// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package backend

import (
	"context"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/cache"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

// CachingFetcher shares successful fetches across sessions for a short TTL.
// Failures are never cached, so a user retry always reaches the backend.
//
// Cached details are shared between stores and must be treated as read-only.
type CachingFetcher struct {
	next  Backend
	cache *cache.Cache
}

// NewCachingFetcher wraps next with a cache of the given TTL.
func NewCachingFetcher(next Backend, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		next:  next,
		cache: cache.New(ttl, cache.WithName("aggregations")),
	}
}

// FetchAggregationDetails returns a cached document when one is fresh.
func (f *CachingFetcher) FetchAggregationDetails(ctx context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	key := cache.GenerateKey("aggregations", kind.String())

	if v, ok := f.cache.Get(key); ok {
		if details, ok := v.(*models.AggregationDetails); ok {
			return details, nil
		}
	}

	details, err := f.next.FetchAggregationDetails(ctx, kind)
	if err != nil {
		return nil, err
	}

	f.cache.Set(key, details)
	return details, nil
}

// Invalidate drops the cached document for kind.
func (f *CachingFetcher) Invalidate(kind models.AggregationKind) {
	f.cache.Delete(cache.GenerateKey("aggregations", kind.String()))
}

// Ping delegates to the wrapped backend.
func (f *CachingFetcher) Ping(ctx context.Context) error {
	return f.next.Ping(ctx)
}

// Close stops the cache cleanup goroutine.
func (f *CachingFetcher) Close() {
	f.cache.Close()
}
