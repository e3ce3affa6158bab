// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/logging"
)

// breakerState is implemented by backends wrapped in a circuit breaker.
type breakerState interface {
	State() string
}

// HealthLive is the liveness probe. It only reports that the process serves.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe: 200 when the backend answers through
// the circuit breaker, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"sessions":       h.sessions.Len(),
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		data["websocket_clients"] = h.hub.GetClientCount()
	}

	ready := true
	if h.backend != nil {
		if cb, ok := h.backend.(breakerState); ok {
			data["circuit_breaker"] = cb.State()
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
		err := h.backend.Ping(ctx)
		cancel()

		data["backend_reachable"] = err == nil
		if err != nil {
			ready = false
			logging.CtxWarn(r.Context()).Err(err).Msg("Readiness probe: backend unreachable")
		}
	}
	data["ready"] = ready

	rw := NewResponseWriter(w, r)
	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Backend unreachable", data)
		return
	}
	rw.Success(data)
}
