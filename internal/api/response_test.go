// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/offspot-metrics/internal/logging"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := logging.ContextWithRequestID(r.Context(), "req-1")
	ctx = logging.ContextWithSessionID(ctx, "sess-1")

	NewResponseWriter(w, r.WithContext(ctx)).Success(map[string]string{"message": "hello"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Unexpected Content-Type %q", ct)
	}

	resp := decodeEnvelope(t, w)
	if !resp.Success || resp.Error != nil {
		t.Errorf("Expected success envelope, got %+v", resp)
	}
	if resp.Meta == nil || resp.Meta.Timestamp.IsZero() {
		t.Fatal("Expected meta with timestamp")
	}
	if resp.Meta.RequestID != "req-1" || resp.Meta.SessionID != "sess-1" {
		t.Errorf("Expected ids from context, got %+v", resp.Meta)
	}
}

func TestResponseWriter_Accepted(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	NewResponseWriter(w, httptest.NewRequest(http.MethodPut, "/test", nil)).Accepted("queued")

	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}
	if resp := decodeEnvelope(t, w); !resp.Success {
		t.Error("Expected Success to be true")
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(rw *ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"validation", func(rw *ResponseWriter) { rw.ValidationError("invalid", map[string]string{"field": "kind"}) }, http.StatusBadRequest, ErrCodeValidationFailed},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("missing") }, http.StatusNotFound, ErrCodeNotFound},
		{"conflict", func(rw *ResponseWriter) { rw.Conflict("at end") }, http.StatusConflict, ErrCodeConflict},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("down") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("boom") }, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/test", nil)
			r = r.WithContext(logging.ContextWithRequestID(r.Context(), "req-err"))
			tt.write(NewResponseWriter(w, r))

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			resp := decodeEnvelope(t, w)
			if resp.Success {
				t.Error("Expected Success to be false")
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("Expected error code %s, got %+v", tt.code, resp.Error)
			}
			if resp.Error.RequestID != "req-err" {
				t.Errorf("Expected request id in error, got %q", resp.Error.RequestID)
			}
		})
	}
}
