// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/middleware"
	"github.com/tomtom215/offspot-metrics/internal/session"
	"github.com/tomtom215/offspot-metrics/internal/validation"
	ws "github.com/tomtom215/offspot-metrics/internal/websocket"
)

// maxBodyBytes bounds request bodies; every body here is a one-field object.
const maxBodyBytes = 64 << 10

// BackendProbe is the part of the backend client the readiness probe uses.
type BackendProbe interface {
	Ping(ctx context.Context) error
}

// Handler serves the dashboard API.
type Handler struct {
	sessions  *session.Manager
	hub       *ws.Hub
	backend   BackendProbe
	mw        *ChiMiddleware
	startTime time.Time

	// readyTimeout bounds the backend probe of /health/ready.
	readyTimeout time.Duration
}

// NewHandler creates the API handler. backend may be nil, in which case
// readiness only reflects the local components.
func NewHandler(sessions *session.Manager, hub *ws.Hub, backend BackendProbe, mw *ChiMiddleware) *Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Handler{
		sessions:     sessions,
		hub:          hub,
		backend:      backend,
		mw:           mw,
		startTime:    time.Now(),
		readyTimeout: 5 * time.Second,
	}
}

// sessionUnavailable answers requests the session middleware could not serve.
func (h *Handler) sessionUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	if errors.Is(err, session.ErrTooManySessions) {
		w.Header().Set("Retry-After", strconv.Itoa(int(h.sessions.IdleTimeout().Seconds())))
		rw.ServiceUnavailable("Too many dashboard sessions, try again later")
		return
	}
	rw.ServiceUnavailable("Dashboard session unavailable")
}

// currentSession returns the session resolved by the middleware. A missing
// session is a routing bug and answered with 500.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		logging.CtxWarn(r.Context()).Str("path", r.URL.Path).Msg("Handler reached without a session")
		NewResponseWriter(w, r).InternalError("No dashboard session")
		return nil, false
	}
	return sess, true
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rw.BadRequest("Request body too large")
			return false
		}
		rw.BadRequest("Invalid JSON body")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// waitParam parses the optional ?wait= flag.
func waitParam(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("wait")
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// awaitFetch blocks until done closes or the request is canceled.
func awaitFetch(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkWebSocketOrigin,
	}
}

// checkWebSocketOrigin applies the CORS origin list to upgrades. Browsers
// always send Origin, so a missing one is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if h.mw.AllowsOrigin(origin) {
		return true
	}
	logging.CtxWarn(r.Context()).Str("origin", strconv.Quote(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
