// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// MockService runs until canceled, optionally failing its first few runs.
type MockService struct {
	name         string
	starts       atomic.Int32
	stops        atomic.Int32
	failuresLeft atomic.Int32
}

func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	defer m.stops.Add(1)

	if m.failuresLeft.Add(-1) >= 0 {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

// SetFailCount makes the next n runs fail immediately.
func (m *MockService) SetFailCount(n int) {
	m.failuresLeft.Store(int32(n))
}

func (m *MockService) StartCount() int32 { return m.starts.Load() }

func (m *MockService) StopCount() int32 { return m.stops.Load() }

func (m *MockService) String() string { return m.name }
