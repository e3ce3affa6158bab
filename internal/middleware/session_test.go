// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/session"
)

type fakeResolver struct {
	sessions map[string]*session.Session
	next     string
	err      error
	asked    []string
}

func (f *fakeResolver) GetOrCreate(id string) (*session.Session, bool, error) {
	f.asked = append(f.asked, id)
	if f.err != nil {
		return nil, false, f.err
	}
	if s, ok := f.sessions[id]; ok {
		return s, false, nil
	}
	s := &session.Session{ID: f.next}
	f.sessions[s.ID] = s
	return s, true, nil
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		sessions: map[string]*session.Session{"known": {ID: "known"}},
		next:     "fresh",
	}
}

func failOnError(t *testing.T) SessionErrorFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		t.Errorf("Unexpected session error: %v", err)
	}
}

func TestSession_ResolvesAndEchoes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{"known header", "known", "", "known"},
		{"known query", "", "known", "known"},
		{"header wins", "known", "other", "known"},
		{"missing", "", "", "fresh"},
		{"unknown", "stale", "", "fresh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resolver := newFakeResolver()

			var got *session.Session
			var logged string
			handler := Session(resolver, failOnError(t))(func(w http.ResponseWriter, r *http.Request) {
				got = GetSession(r.Context())
				logged = logging.SessionIDFromContext(r.Context())
			})

			target := "/api/v1/state"
			if tt.query != "" {
				target += "?" + SessionQueryParam + "=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got == nil || got.ID != tt.want {
				t.Fatalf("Expected session %q, got %+v", tt.want, got)
			}
			if rec.Header().Get(SessionHeader) != tt.want {
				t.Errorf("Expected header %q, got %q", tt.want, rec.Header().Get(SessionHeader))
			}
			if logged != tt.want {
				t.Errorf("Expected logging session id %q, got %q", tt.want, logged)
			}
		})
	}
}

func TestSession_Error(t *testing.T) {
	t.Parallel()

	resolver := newFakeResolver()
	resolver.err = session.ErrTooManySessions

	var gotErr error
	called := false
	handler := Session(resolver, func(w http.ResponseWriter, r *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusServiceUnavailable)
	})(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Error("Handler must not run without a session")
	}
	if !errors.Is(gotErr, session.ErrTooManySessions) {
		t.Errorf("Expected ErrTooManySessions, got %v", gotErr)
	}
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get(SessionHeader) != "" {
		t.Errorf("Unexpected response: %d %q", rec.Code, rec.Header().Get(SessionHeader))
	}
}

func TestGetSession_Empty(t *testing.T) {
	t.Parallel()

	if GetSession(context.Background()) != nil {
		t.Error("Expected nil session")
	}
}
