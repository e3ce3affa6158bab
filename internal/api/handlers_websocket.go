// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/middleware"
	ws "github.com/tomtom215/offspot-metrics/internal/websocket"
)

// registerTimeout bounds the hand-off of a new client to the hub.
const registerTimeout = 5 * time.Second

// WebSocket upgrades the request and subscribes the connection to the state
// changes of its session. The current state is pushed right away.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	upgrader := h.newUpgrader()
	// Upgrade writes its own response, so the session header is passed explicitly.
	conn, err := upgrader.Upgrade(w, r, http.Header{middleware.SessionHeader: []string{sess.ID}})
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, sess.ID)
	select {
	case h.hub.Register <- client:
	case <-time.After(registerTimeout):
		logging.CtxWarn(r.Context()).Msg("WebSocket hub not accepting clients, closing connection")
		_ = conn.Close()
		return
	}
	client.Start()

	h.hub.BroadcastState(sess.ID, sess.Store.Snapshot())
}
