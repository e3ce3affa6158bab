// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/models"
)

var errBackendDown = errors.New("backend down")

// staticFetcher answers immediately from a per-kind table.
type staticFetcher struct {
	mu          sync.Mutex
	details     map[models.AggregationKind]*models.AggregationDetails
	err         error
	calls       atomic.Int32
	invalidated []models.AggregationKind
}

func newStaticFetcher(docs ...*models.AggregationDetails) *staticFetcher {
	f := &staticFetcher{details: make(map[models.AggregationKind]*models.AggregationDetails)}
	for _, d := range docs {
		f.details[d.AggKind] = d
	}
	return f
}

func (f *staticFetcher) FetchAggregationDetails(_ context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[kind]
	if !ok {
		return nil, errBackendDown
	}
	return d, nil
}

func (f *staticFetcher) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *staticFetcher) Invalidate(kind models.AggregationKind) {
	f.mu.Lock()
	f.invalidated = append(f.invalidated, kind)
	f.mu.Unlock()
}

type fetchReply struct {
	details *models.AggregationDetails
	err     error
}

type fetchCall struct {
	kind  models.AggregationKind
	reply chan fetchReply
}

// blockingFetcher hands every request to the test, which decides when and how
// it completes. It ignores cancellation, like a backend that answers anyway.
type blockingFetcher struct {
	calls chan fetchCall
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{calls: make(chan fetchCall, 8)}
}

func (f *blockingFetcher) FetchAggregationDetails(_ context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	call := fetchCall{kind: kind, reply: make(chan fetchReply, 1)}
	f.calls <- call
	r := <-call.reply
	return r.details, r.err
}

// nextCalls receives n pending requests, keyed by kind.
func (f *blockingFetcher) nextCalls(t *testing.T, n int) map[models.AggregationKind]fetchCall {
	t.Helper()
	calls := make(map[models.AggregationKind]fetchCall, n)
	for i := 0; i < n; i++ {
		select {
		case c := <-f.calls:
			calls[c.kind] = c
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for fetch %d of %d", i+1, n)
		}
	}
	return calls
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for fetch completion")
	}
}

func newDetails(kind models.AggregationKind, available []string, kpis ...models.AggregationKpi) *models.AggregationDetails {
	return &models.AggregationDetails{
		AggKind:         kind,
		ValuesAvailable: available,
		ValuesAll:       available,
		Kpis:            kpis,
	}
}

func kpiAt(id models.KpiID, aggValue string, v models.KpiValue) models.AggregationKpi {
	return models.AggregationKpi{
		KpiID:  id,
		Values: []models.AggregationKpiValue{{AggValue: aggValue, KpiValue: v}},
	}
}

// loadedStore returns a store whose kind is d.AggKind and whose fetch completed.
func loadedStore(t *testing.T, d *models.AggregationDetails) *Store {
	t.Helper()
	s := New(newStaticFetcher(d))
	t.Cleanup(s.Close)
	waitDone(t, s.SetAggregationKind(d.AggKind))
	if msg := s.ErrorMessage(); msg != "" {
		t.Fatalf("Unexpected fetch error: %s", msg)
	}
	return s
}
