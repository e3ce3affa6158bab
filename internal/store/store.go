// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/models"
	"github.com/tomtom215/offspot-metrics/internal/palette"
)

// FetchErrorMessage is the user-visible message set when a fetch fails.
const FetchErrorMessage = "Failed to load aggregations details."

// Fetcher loads the aggregation details of one kind.
type Fetcher interface {
	FetchAggregationDetails(ctx context.Context, kind models.AggregationKind) (*models.AggregationDetails, error)
}

// invalidator is implemented by fetchers that cache documents.
type invalidator interface {
	Invalidate(kind models.AggregationKind)
}

// Listener receives the state after every mutation.
type Listener func(State)

// State is an immutable snapshot of a Store.
type State struct {
	AggregationKind         models.AggregationKind     `json:"aggregationKind"`
	AggregationValueIndex   int                        `json:"aggregationValueIndex"`
	AggregationValue        string                     `json:"aggregationValue"`
	HasNextAggregationValue bool                       `json:"hasNextAggregationValue"`
	HasPrevAggregationValue bool                       `json:"hasPrevAggregationValue"`
	IsLoading               bool                       `json:"isLoading"`
	ErrorMessage            *string                    `json:"errorMessage"`
	CurrentPage             models.Page                `json:"currentPage"`
	AggregationsDetails     *models.AggregationDetails `json:"aggregationsDetails,omitempty"`

	// Version increases with every mutation.
	Version uint64 `json:"version"`
}

// WithoutDetails returns s with the details document stripped, for lightweight pushes.
func (s State) WithoutDetails() State {
	s.AggregationsDetails = nil
	return s
}

// Option configures a Store.
type Option func(*Store)

// WithColors shares a color assigner instead of creating one per store.
func WithColors(a *palette.Assigner) Option {
	return func(s *Store) {
		s.colors = a
	}
}

// WithLogger sets the logger used for fetch lifecycle lines.
func WithLogger(l *logging.StoreLogger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithContext sets the parent of every fetch context. Its values (session id,
// correlation id) end up in fetch log lines; cancelling it stops pending fetches.
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		s.parent = ctx
	}
}

// Store is the Root Aggregation Store of one dashboard session.
type Store struct {
	fetcher Fetcher
	colors  *palette.Assigner
	logger  *logging.StoreLogger
	parent  context.Context

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.RWMutex
	kind         models.AggregationKind
	index        int
	details      *models.AggregationDetails
	isLoading    bool
	errorMessage *string
	page         models.Page
	version      uint64

	seq      uint64
	inflight context.CancelFunc
	closed   bool

	listeners    map[int]Listener
	nextListener int
}

// New creates a Store in its initial state: kind D, index 0, no details.
// No fetch is issued until FetchAggregationDetails or SetAggregationKind is called.
func New(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:   fetcher,
		parent:    context.Background(),
		kind:      models.KindDaily,
		page:      models.PageDashboard,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.colors == nil {
		s.colors = palette.NewAssigner()
	}
	if s.logger == nil {
		s.logger = logging.NewStoreLogger()
	}
	s.ctx, s.cancel = context.WithCancel(s.parent)
	return s
}

// SetAggregationKind selects kind and triggers a fetch. The index is left as is
// until the fetch completes.
func (s *Store) SetAggregationKind(kind models.AggregationKind) <-chan struct{} {
	s.mu.Lock()
	s.kind = kind
	s.mu.Unlock()
	return s.FetchAggregationDetails()
}

// ToNextAggregationValue moves the index forward by one. It is not clamped:
// past the end AggregationValue is "". Check HasNextAggregationValue first.
func (s *Store) ToNextAggregationValue() {
	s.mutate(func() { s.index++ })
}

// ToPreviousAggregationValue moves the index back by one, without clamping.
func (s *Store) ToPreviousAggregationValue() {
	s.mutate(func() { s.index-- })
}

// TryNextAggregationValue moves forward only when a next value exists. The
// check and the move happen under one lock; it reports whether it moved.
func (s *Store) TryNextAggregationValue() bool {
	return s.tryMove(s.hasNextLocked, 1)
}

// TryPreviousAggregationValue moves back only when the index is above 0.
func (s *Store) TryPreviousAggregationValue() bool {
	return s.tryMove(func() bool { return s.index > 0 }, -1)
}

func (s *Store) tryMove(allowed func() bool, delta int) bool {
	s.mu.Lock()
	if !allowed() {
		s.mu.Unlock()
		return false
	}
	s.index += delta
	snap, listeners := s.changedLocked()
	s.mu.Unlock()
	notify(listeners, snap)
	return true
}

// SetAggregationValue selects value by position in valuesAvailable.
// It reports false when no details are loaded or value is not available.
func (s *Store) SetAggregationValue(value string) bool {
	found := false
	s.mutate(func() {
		if s.details == nil {
			return
		}
		for i, v := range s.details.ValuesAvailable {
			if v == value {
				s.index = i
				found = true
				return
			}
		}
	})
	return found
}

// SetCurrentPage records the page the session is displaying.
// It reports false for an unknown page.
func (s *Store) SetCurrentPage(page models.Page) bool {
	if !page.Valid() {
		return false
	}
	s.mutate(func() { s.page = page })
	return true
}

// Refresh re-fetches the current kind, bypassing any shared cache.
func (s *Store) Refresh() <-chan struct{} {
	if inv, ok := s.fetcher.(invalidator); ok {
		inv.Invalidate(s.AggregationKind())
	}
	return s.FetchAggregationDetails()
}

// FetchAggregationDetails issues one request for the current kind and returns
// immediately. The returned channel is closed once this request's completion
// has been applied or discarded.
//
// On success the details are replaced and the index moves to the last
// available value (-1 when there is none). On failure the error message is set,
// the details are cleared and the index is kept. A completion whose request has
// been superseded by a newer one changes nothing.
func (s *Store) FetchAggregationDetails() <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(done)
		return done
	}

	s.seq++
	seq := s.seq
	if s.inflight != nil {
		s.inflight()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel

	kind := s.kind
	s.isLoading = true
	s.errorMessage = nil
	snap, listeners := s.changedLocked()
	s.mu.Unlock()

	s.logger.LogFetchStarted(ctx, kind.String(), seq)
	notify(listeners, snap)

	go s.runFetch(ctx, cancel, seq, kind, done)
	return done
}

func (s *Store) runFetch(ctx context.Context, cancel context.CancelFunc, seq uint64, kind models.AggregationKind, done chan<- struct{}) {
	defer close(done)
	defer cancel()

	start := time.Now()
	details, err := s.fetcher.FetchAggregationDetails(ctx, kind)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if seq != s.seq {
		latest := s.seq
		s.mu.Unlock()
		metrics.StaleResponsesDiscarded.Inc()
		s.logger.LogStaleDiscarded(ctx, kind.String(), seq, latest)
		return
	}

	s.inflight = nil
	if err != nil {
		msg := FetchErrorMessage
		s.errorMessage = &msg
		s.details = nil
	} else {
		s.details = details
		s.index = len(details.ValuesAvailable) - 1
	}
	s.isLoading = false
	snap, listeners := s.changedLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.LogFetchFailed(ctx, kind.String(), seq, err)
	} else {
		s.logger.LogFetchCompleted(ctx, kind.String(), seq, len(details.ValuesAvailable), time.Since(start))
	}
	notify(listeners, snap)
}

// mutate applies fn under the write lock and notifies listeners.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap, listeners := s.changedLocked()
	s.mu.Unlock()
	notify(listeners, snap)
}

// changedLocked bumps the version and captures what listeners need.
func (s *Store) changedLocked() (State, []Listener) {
	s.version++
	if len(s.listeners) == 0 {
		return State{}, nil
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return s.snapshotLocked(), listeners
}

func notify(listeners []Listener, snap State) {
	for _, l := range listeners {
		l(snap)
	}
}

// OnChange registers fn to be called after every mutation. The returned
// function removes it.
func (s *Store) OnChange(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Close cancels pending fetches and drops listeners. Later fetches complete
// immediately without touching the backend.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.inflight = nil
	s.listeners = make(map[int]Listener)
	s.mu.Unlock()

	s.cancel()
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	var errMsg *string
	if s.errorMessage != nil {
		msg := *s.errorMessage
		errMsg = &msg
	}
	return State{
		AggregationKind:         s.kind,
		AggregationValueIndex:   s.index,
		AggregationValue:        s.aggregationValueLocked(),
		HasNextAggregationValue: s.hasNextLocked(),
		HasPrevAggregationValue: s.index > 0,
		IsLoading:               s.isLoading,
		ErrorMessage:            errMsg,
		CurrentPage:             s.page,
		AggregationsDetails:     s.details,
		Version:                 s.version,
	}
}

// AggregationKind returns the selected kind.
func (s *Store) AggregationKind() models.AggregationKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

// AggregationValueIndex returns the raw index, which may be out of range.
func (s *Store) AggregationValueIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// AggregationValue returns valuesAvailable[index], or "" when absent.
func (s *Store) AggregationValue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregationValueLocked()
}

func (s *Store) aggregationValueLocked() string {
	if s.details == nil || s.index < 0 || s.index >= len(s.details.ValuesAvailable) {
		return ""
	}
	return s.details.ValuesAvailable[s.index]
}

// HasNextAggregationValue reports whether details are loaded and the index is
// before the last available value.
func (s *Store) HasNextAggregationValue() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasNextLocked()
}

func (s *Store) hasNextLocked() bool {
	return s.details != nil && s.index < len(s.details.ValuesAvailable)-1
}

// HasPrevAggregationValue reports whether the index is above 0.
func (s *Store) HasPrevAggregationValue() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index > 0
}

// IsLoading reports whether the latest fetch is still pending.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// ErrorMessage returns the fetch error message, or "" when there is none.
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.errorMessage == nil {
		return ""
	}
	return *s.errorMessage
}

// CurrentPage returns the page the session is displaying.
func (s *Store) CurrentPage() models.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Details returns the loaded document, or nil.
func (s *Store) Details() *models.AggregationDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.details
}

// GetPackageColor returns the session color of a package, assigning one on first use.
func (s *Store) GetPackageColor(name string) string {
	return s.colors.ColorFor(name)
}

// Colors returns the session color assigner.
func (s *Store) Colors() *palette.Assigner {
	return s.colors
}
