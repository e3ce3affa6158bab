// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package backend

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/config"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

const dailyDetailsJSON = `{
  "aggKind": "D",
  "valuesAvailable": ["2024-03-06", "2024-03-07"],
  "valuesAll": ["2024-03-05", "2024-03-06", "2024-03-07"],
  "kpis": [
    {"kpiId": 2004, "values": [{"aggValue": "2024-03-07", "kpiValue": {"nbMinutesOn": 720}}]}
  ]
}`

func testBackendConfig(root string) *config.BackendConfig {
	return &config.BackendConfig{
		RootAPI:           root,
		Timeout:           5 * time.Second,
		MaxRetries:        3,
		RetryBaseDelay:    time.Millisecond,
		RequestsPerSecond: 0,
		ValidateSchema:    true,
	}
}

func newTestClient(t *testing.T, root string) *Client {
	t.Helper()
	c, err := NewClient(testBackendConfig(root))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

// fakeBackend is an in-memory Backend for wrapper tests.
type fakeBackend struct {
	calls   atomic.Int32
	pings   atomic.Int32
	err     error
	pingErr error
	details *models.AggregationDetails
}

func (f *fakeBackend) FetchAggregationDetails(_ context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.details != nil {
		return f.details, nil
	}
	return &models.AggregationDetails{AggKind: kind}, nil
}

func (f *fakeBackend) Ping(context.Context) error {
	f.pings.Add(1)
	return f.pingErr
}
