// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/offspot-metrics/internal/metrics"
)

// defaultCleanupInterval bounds how long an expired entry may linger unobserved.
const defaultCleanupInterval = 5 * time.Minute

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// EvictFunc is called with every entry removed by expiry, Delete or Clear.
type EvictFunc func(key string, value interface{})

// Cache provides a thread-safe in-memory cache with TTL support
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	ttl      time.Duration
	stats    Stats
	name     string
	interval time.Duration
	onEvict  EvictFunc
	stop     chan struct{}
	stopOnce sync.Once
}

// Stats tracks cache performance metrics
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithName sets the cache_type label used for Prometheus metrics.
func WithName(name string) Option {
	return func(c *Cache) {
		c.name = name
	}
}

// WithOnEvict registers a callback for removed entries.
// The callback runs outside the cache lock and may call back into the cache.
func WithOnEvict(fn EvictFunc) Option {
	return func(c *Cache) {
		c.onEvict = fn
	}
}

// WithCleanupInterval overrides how often expired entries are swept.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.interval = d
		}
	}
}

// New creates a thread-safe in-memory cache with automatic expiration.
//
// A background goroutine sweeps expired entries every 5 minutes (or the TTL, when
// shorter) until Close is called.
//
// Example:
//
//	c := cache.New(30*time.Second, cache.WithName("aggregations"))
//	defer c.Close()
//	c.Set("aggregations:D", details)
//	if data, ok := c.Get("aggregations:D"); ok {
//	    details = data.(*models.AggregationDetails)
//	}
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]Entry),
		ttl:      ttl,
		name:     "default",
		interval: defaultCleanupInterval,
		stop:     make(chan struct{}),
		stats: Stats{
			LastCleanup: time.Now(),
		},
	}
	if ttl > 0 && ttl < c.interval {
		c.interval = ttl
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a value from the cache by key.
// Expired entries are removed on access and reported as misses.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		current, still := c.entries[key]
		removed := still && current.ExpiresAt.Equal(entry.ExpiresAt)
		if removed {
			delete(c.entries, key)
		}
		c.updateSizeLocked()
		c.mu.Unlock()

		c.recordMiss()
		if removed {
			c.recordEvictions(1)
			c.notifyEvicted(key, entry.Data)
		}
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value in the cache with the default TTL configured at cache creation.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	c.updateSizeLocked()
}

// Touch extends the expiry of a live entry by the default TTL.
// It returns false when the key is missing or already expired.
func (c *Cache) Touch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return false
	}
	entry.ExpiresAt = time.Now().Add(c.ttl)
	c.entries[key] = entry
	return true
}

// Delete removes a specific cache entry by key.
// No-op if key doesn't exist.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	delete(c.entries, key)
	c.updateSizeLocked()
	c.mu.Unlock()

	if ok {
		c.recordEvictions(1)
		c.notifyEvicted(key, entry.Data)
	}
}

// Clear removes all entries from the cache in a single atomic operation.
func (c *Cache) Clear() {
	c.mu.Lock()
	old := c.entries
	c.entries = make(map[string]Entry)
	c.updateSizeLocked()
	c.mu.Unlock()

	c.recordEvictions(int64(len(old)))
	for key, entry := range old {
		c.notifyEvicted(key, entry.Data)
	}
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background cleanup goroutine. Entries remain readable.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// GetStats returns a snapshot of current cache performance statistics.
func (c *Cache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stop:
			return
		}
	}
}

// Cleanup removes all expired entries now and returns how many were evicted.
func (c *Cache) Cleanup() int {
	now := time.Now()
	expired := make(map[string]interface{})

	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			expired[key] = entry.Data
		}
	}
	c.updateSizeLocked()
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()

	c.recordEvictions(int64(len(expired)))
	for key, data := range expired {
		c.notifyEvicted(key, data)
	}
	return len(expired)
}

func (c *Cache) notifyEvicted(key string, value interface{}) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// updateSizeLocked must be called with mu held.
func (c *Cache) updateSizeLocked() {
	size := int64(len(c.entries))
	c.stats.mu.Lock()
	c.stats.TotalKeys = size
	c.stats.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	metrics.RecordCacheAccess(c.name, true)
}

func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
	metrics.RecordCacheAccess(c.name, false)
}

func (c *Cache) recordEvictions(n int64) {
	if n == 0 {
		return
	}
	c.stats.mu.Lock()
	c.stats.Evictions += n
	c.stats.mu.Unlock()
}

// GenerateKey creates a cache key from the method name and parameters
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
