// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/offspot-metrics/internal/cache"
	"github.com/tomtom215/offspot-metrics/internal/config"
	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/store"
)

// ErrTooManySessions is returned when the session limit has been reached.
var ErrTooManySessions = errors.New("too many active sessions")

// Eviction reasons, used as the reason label of dashboard_sessions_evicted_total.
const (
	ReasonIdle     = "idle"
	ReasonRemoved  = "removed"
	ReasonShutdown = "shutdown"
)

// Session is one dashboard session.
type Session struct {
	ID        string
	Store     *store.Store
	CreatedAt time.Time
}

// Hook observes session lifecycle events.
type Hook func(*Session)

// Option configures a Manager.
type Option func(*Manager)

// WithOnCreate registers fn to run after a session is created, before its first fetch.
func WithOnCreate(fn Hook) Option {
	return func(m *Manager) {
		m.onCreate = append(m.onCreate, fn)
	}
}

// WithOnEvict registers fn to run after a session is evicted and its store closed.
func WithOnEvict(fn Hook) Option {
	return func(m *Manager) {
		m.onEvict = append(m.onEvict, fn)
	}
}

// WithContext sets the parent context of every session store.
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		m.ctx = ctx
	}
}

// Manager creates, looks up and evicts sessions.
//
// Thread Safety: safe for concurrent use.
type Manager struct {
	fetcher     store.Fetcher
	idleTimeout time.Duration
	maxSessions int
	ctx         context.Context

	onCreate []Hook
	onEvict  []Hook

	sessions *cache.Cache

	// createMu serializes the capacity check with the insert.
	createMu sync.Mutex

	pending  sync.Map // session id -> eviction reason
	shutdown atomic.Bool
}

// NewManager creates a Manager whose stores load data through fetcher.
func NewManager(fetcher store.Fetcher, cfg *config.SessionConfig, opts ...Option) *Manager {
	m := &Manager{
		fetcher:     fetcher,
		idleTimeout: cfg.IdleTimeout,
		maxSessions: cfg.MaxSessions,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sessions = cache.New(cfg.IdleTimeout,
		cache.WithName("sessions"),
		cache.WithOnEvict(m.evicted),
	)
	return m
}

// Get returns the live session id, extending its idle deadline.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	m.sessions.Touch(id)
	return v.(*Session), true
}

// GetOrCreate returns the session id when it is live, or a new session otherwise.
// The second result reports whether a session was created; a created session
// never has the requested id.
func (m *Manager) GetOrCreate(id string) (*Session, bool, error) {
	if sess, ok := m.Get(id); ok {
		return sess, false, nil
	}
	sess, err := m.Create()
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Create starts a new session and its first fetch.
func (m *Manager) Create() (*Session, error) {
	if m.shutdown.Load() {
		return nil, ErrTooManySessions
	}

	m.createMu.Lock()
	if m.sessions.Len() >= m.maxSessions {
		m.sessions.Cleanup()
		if m.sessions.Len() >= m.maxSessions {
			m.createMu.Unlock()
			logging.Warn().Int("max_sessions", m.maxSessions).Msg("Session limit reached")
			return nil, ErrTooManySessions
		}
	}

	id := uuid.NewString()
	ctx := logging.ContextWithSessionID(m.ctx, id)
	sess := &Session{
		ID:        id,
		Store:     store.New(m.fetcher, store.WithContext(ctx)),
		CreatedAt: time.Now(),
	}
	m.sessions.Set(id, sess)
	m.createMu.Unlock()

	metrics.ActiveSessions.Set(float64(m.sessions.Len()))
	logging.Debug().Str("session_id", id).Msg("Session created")

	for _, fn := range m.onCreate {
		fn(sess)
	}
	sess.Store.FetchAggregationDetails()
	return sess, nil
}

// Remove evicts a session immediately. Unknown ids are ignored.
func (m *Manager) Remove(id string) {
	if _, ok := m.sessions.Get(id); !ok {
		return
	}
	m.pending.Store(id, ReasonRemoved)
	m.sessions.Delete(id)
}

// Sweep evicts every idle session now and returns how many were evicted.
func (m *Manager) Sweep() int {
	return m.sessions.Cleanup()
}

// Len returns the number of sessions, including idle ones not yet swept.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// IdleTimeout returns how long a session may stay unused.
func (m *Manager) IdleTimeout() time.Duration {
	return m.idleTimeout
}

// Close evicts every session and refuses new ones.
func (m *Manager) Close() {
	if m.shutdown.Swap(true) {
		return
	}
	m.sessions.Clear()
	m.sessions.Close()
}

// evicted runs outside the cache lock for every removed session.
func (m *Manager) evicted(id string, v interface{}) {
	sess, ok := v.(*Session)
	if !ok {
		return
	}

	reason := ReasonIdle
	if r, ok := m.pending.LoadAndDelete(id); ok {
		reason = r.(string)
	} else if m.shutdown.Load() {
		reason = ReasonShutdown
	}

	sess.Store.Close()
	metrics.SessionsEvicted.WithLabelValues(reason).Inc()
	metrics.ActiveSessions.Set(float64(m.sessions.Len()))
	logging.Debug().Str("session_id", id).Str("reason", reason).Msg("Session evicted")

	for _, fn := range m.onEvict {
		fn(sess)
	}
}
