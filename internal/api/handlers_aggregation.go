// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"net/http"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/models"
	"github.com/tomtom215/offspot-metrics/internal/session"
)

// State returns the full snapshot of the session's root store.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, sess.Store.Snapshot())
}

// SetAggregationKind switches the session to another kind and starts a fetch.
// With ?wait=true the response is sent once the fetch has settled.
func (h *Handler) SetAggregationKind(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	wait, err := waitParam(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest("wait must be a boolean")
		return
	}

	var req SetKindRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	done := sess.Store.SetAggregationKind(req.AggregationKind())
	logging.Ctx(r.Context()).Debug().Str("agg_kind", req.Kind).Bool("wait", wait).Msg("Aggregation kind changed")

	h.respondAfterFetch(w, r, sess, done, wait)
}

// RefreshAggregation fetches the current kind again, bypassing cached documents.
func (h *Handler) RefreshAggregation(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	wait, err := waitParam(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest("wait must be a boolean")
		return
	}

	h.respondAfterFetch(w, r, sess, sess.Store.Refresh(), wait)
}

func (h *Handler) respondAfterFetch(w http.ResponseWriter, r *http.Request, sess *session.Session, done <-chan struct{}, wait bool) {
	rw := NewResponseWriter(w, r)

	if !wait {
		rw.Accepted(sess.Store.Snapshot())
		return
	}
	if err := awaitFetch(r.Context(), done); err != nil {
		// The client is gone; nothing useful can be written.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled while waiting for fetch")
		return
	}
	rw.Success(sess.Store.Snapshot())
}

// SetAggregationValue selects an available aggregation value.
func (h *Handler) SetAggregationValue(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req SetValueRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !sess.Store.SetAggregationValue(req.Value) {
		NewResponseWriter(w, r).NotFound("Aggregation value not available")
		return
	}
	WriteSuccess(w, r, sess.Store.Snapshot())
}

// NextAggregationValue moves to the next value, 409 when there is none.
func (h *Handler) NextAggregationValue(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if !sess.Store.TryNextAggregationValue() {
		NewResponseWriter(w, r).Conflict("Already at the most recent aggregation value")
		return
	}
	WriteSuccess(w, r, sess.Store.Snapshot())
}

// PreviousAggregationValue moves to the previous value, 409 when there is none.
func (h *Handler) PreviousAggregationValue(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if !sess.Store.TryPreviousAggregationValue() {
		NewResponseWriter(w, r).Conflict("Already at the oldest aggregation value")
		return
	}
	WriteSuccess(w, r, sess.Store.Snapshot())
}

// SetCurrentPage records the page the dashboard displays.
func (h *Handler) SetCurrentPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req SetPageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !sess.Store.SetCurrentPage(models.Page(req.Page)) {
		NewResponseWriter(w, r).BadRequest("Unknown page")
		return
	}
	WriteSuccess(w, r, sess.Store.Snapshot())
}
