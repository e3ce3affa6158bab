// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

// TestCircuitBreaker_OpensAfterFailures verifies circuit opens after exceeding failure threshold
func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	fake := &fakeBackend{}
	cbc := NewCircuitBreakerClient(fake, "test-opens")

	if cbc.cb.State() != gobreaker.StateClosed {
		t.Fatalf("Expected initial state Closed, got %v", cbc.cb.State())
	}

	// 7 failures then 3 successes: 70% failure rate over 10 requests
	for i := 0; i < 10; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			if i < 7 {
				return nil, errors.New("simulated backend failure")
			}
			return "ok", nil
		})
	}

	// ReadyToTrip is evaluated on failure, so one more failure trips it
	_, _ = cbc.execute(func() (interface{}, error) {
		return nil, errors.New("final failure")
	})

	if cbc.cb.State() != gobreaker.StateOpen {
		t.Fatalf("Expected Open after 70%% failures, got %v", cbc.cb.State())
	}
	if cbc.State() != "open" {
		t.Errorf("State() = %q, want open", cbc.State())
	}

	_, err := cbc.FetchAggregationDetails(context.Background(), models.KindDaily)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if fake.calls.Load() != 0 {
		t.Errorf("Open breaker must not reach the backend, got %d calls", fake.calls.Load())
	}

	if err := cbc.Ping(context.Background()); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected Ping to be rejected while open, got %v", err)
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("Expected state gauge 2 (open), got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-opens", "rejected")); got != 2 {
		t.Errorf("Expected 2 rejected requests, got %v", got)
	}
}

func TestCircuitBreaker_StaysClosedBelowMinimum(t *testing.T) {
	t.Parallel()

	cbc := NewCircuitBreakerClient(&fakeBackend{}, "test-minimum")

	for i := 0; i < 9; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			return nil, errors.New("failure")
		})
	}

	if cbc.cb.State() != gobreaker.StateClosed {
		t.Errorf("Expected Closed below 10 requests, got %v", cbc.cb.State())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerConsecutiveFailures.WithLabelValues("test-minimum")); got != 9 {
		t.Errorf("Expected 9 consecutive failures, got %v", got)
	}
}

func TestCircuitBreaker_CancellationNotCounted(t *testing.T) {
	t.Parallel()

	fake := &fakeBackend{err: context.Canceled}
	cbc := NewCircuitBreakerClient(fake, "test-canceled")

	for i := 0; i < 20; i++ {
		_, err := cbc.FetchAggregationDetails(context.Background(), models.KindDaily)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected cancellation to pass through, got %v", err)
		}
	}

	if cbc.cb.State() != gobreaker.StateClosed {
		t.Errorf("Cancelled fetches must not trip the breaker, state %v", cbc.cb.State())
	}
	if fake.calls.Load() != 20 {
		t.Errorf("Expected 20 backend calls, got %d", fake.calls.Load())
	}
}

func TestCircuitBreaker_FetchSuccess(t *testing.T) {
	t.Parallel()

	want := &models.AggregationDetails{AggKind: models.KindWeekly, ValuesAvailable: []string{"2024 W10"}}
	fake := &fakeBackend{details: want}
	cbc := NewCircuitBreakerClient(fake, "")

	got, err := cbc.FetchAggregationDetails(context.Background(), models.KindWeekly)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Expected wrapped details, got %+v", got)
	}
	if cbc.name != DefaultBreakerName {
		t.Errorf("Expected default name, got %q", cbc.name)
	}
}

func TestCastResult(t *testing.T) {
	t.Parallel()

	if _, err := castResult[models.AggregationDetails]("not details", nil); err == nil {
		t.Error("Expected type error")
	}
	sentinel := errors.New("upstream")
	if _, err := castResult[models.AggregationDetails](nil, sentinel); !errors.Is(err, sentinel) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestStateConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		f     float64
		s     string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
		{gobreaker.State(99), -1, "unknown"},
	}
	for _, tt := range tests {
		if stateToFloat(tt.state) != tt.f || stateToString(tt.state) != tt.s {
			t.Errorf("state %v: got %v/%q, want %v/%q", tt.state, stateToFloat(tt.state), stateToString(tt.state), tt.f, tt.s)
		}
	}
}
