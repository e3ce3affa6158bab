// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/offspot-metrics/internal/config"
	"github.com/tomtom215/offspot-metrics/internal/middleware"
	"github.com/tomtom215/offspot-metrics/internal/models"
	"github.com/tomtom215/offspot-metrics/internal/session"
	ws "github.com/tomtom215/offspot-metrics/internal/websocket"
)

// fakeBackend serves a fixed daily document for every kind.
type fakeBackend struct {
	mu      sync.Mutex
	pingErr error
}

func (f *fakeBackend) FetchAggregationDetails(_ context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	return &models.AggregationDetails{
		AggKind:         kind,
		ValuesAvailable: []string{"2024-03-06", "2024-03-07"},
		ValuesAll:       []string{"2024-03-05", "2024-03-06", "2024-03-07"},
		Kpis: []models.AggregationKpi{
			{KpiID: models.KpiTotalUsage, Values: []models.AggregationKpiValue{
				{AggValue: "2024-03-07", KpiValue: &models.TotalUsageKpiValue{
					Items:                []models.TotalUsageKpiItem{{Package: "wikipedia", MinutesActivity: 120}, {Package: "gutenberg", MinutesActivity: 30}},
					TotalMinutesActivity: 150,
				}},
			}},
			{KpiID: models.KpiPackagePopularity, Values: []models.AggregationKpiValue{
				{AggValue: "2024-03-07", KpiValue: &models.PackagePopularityKpiValue{
					Items:       []models.PackagePopularityKpiItem{{Package: "wikipedia", Visits: 12}},
					TotalVisits: 20,
				}},
			}},
			{KpiID: models.KpiUptime, Values: []models.AggregationKpiValue{
				{AggValue: "2024-03-06", KpiValue: &models.UptimeKpiValue{NbMinutesOn: 1440}},
				{AggValue: "2024-03-07", KpiValue: &models.UptimeKpiValue{NbMinutesOn: 720}},
			}},
			{KpiID: models.KpiSharedFiles, Values: []models.AggregationKpiValue{
				{AggValue: "2024-03-06", KpiValue: &models.SharedFilesKpiValue{FilesCreated: 3, FilesDeleted: 1}},
			}},
		},
	}, nil
}

func (f *fakeBackend) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeBackend) setPingErr(err error) {
	f.mu.Lock()
	f.pingErr = err
	f.mu.Unlock()
}

type testEnv struct {
	handler  http.Handler
	backend  *fakeBackend
	sessions *session.Manager
	hub      *ws.Hub
}

func newTestEnv(t *testing.T, maxSessions int) *testEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	hubDone := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(hubDone)
	}()

	backend := &fakeBackend{}
	sessions := session.NewManager(backend,
		&config.SessionConfig{IdleTimeout: time.Minute, MaxSessions: maxSessions},
		session.WithOnCreate(hub.Attach),
		session.WithOnEvict(hub.Detach),
	)

	t.Cleanup(func() {
		sessions.Close()
		cancel()
		<-hubDone
	})

	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	})
	h := NewHandler(sessions, hub, backend, mw)
	return &testEnv{
		handler:  NewRouter(h),
		backend:  backend,
		sessions: sessions,
		hub:      hub,
	}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// loadedSession creates a session and waits until its daily document is applied.
func (e *testEnv) loadedSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPut, "/api/v1/aggregation/kind?wait=true", "", SetKindRequest{Kind: "D"})
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to load session: %d %s", w.Code, w.Body.String())
	}
	id := w.Header().Get(middleware.SessionHeader)
	if id == "" {
		t.Fatal("No session id issued")
	}
	return id
}

type rawEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) rawEnvelope {
	t.Helper()
	var env rawEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode envelope %q: %v", w.Body.String(), err)
	}
	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("Failed to decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	env := decodeData(t, w, nil)
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Errorf("Expected error %s, got %+v", code, env.Error)
	}
}

var errBackendDown = errors.New("backend down")
