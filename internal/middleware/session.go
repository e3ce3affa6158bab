// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/session"
)

// SessionHeader carries the dashboard session id in both directions.
const SessionHeader = "X-Session-ID"

// SessionQueryParam is accepted where headers cannot be set (WebSocket upgrades).
const SessionQueryParam = "session"

// SessionKey is the context key of the resolved *session.Session.
const SessionKey contextKey = "dashboard_session"

// SessionResolver is the part of session.Manager the middleware needs.
type SessionResolver interface {
	GetOrCreate(id string) (*session.Session, bool, error)
}

// SessionErrorFunc writes the response when no session can be provided.
type SessionErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// Session resolves the dashboard session of every request. A missing or
// unknown id gets a new session; the id in effect is always echoed back in
// X-Session-ID.
func Session(resolver SessionResolver, onError SessionErrorFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				id = r.URL.Query().Get(SessionQueryParam)
			}

			sess, created, err := resolver.GetOrCreate(id)
			if err != nil {
				if !errors.Is(err, session.ErrTooManySessions) {
					logging.CtxErr(r.Context(), err).Msg("Failed to resolve session")
				}
				onError(w, r, err)
				return
			}
			if created {
				logging.Ctx(r.Context()).Debug().
					Str("session_id", sess.ID).
					Bool("replaced", id != "").
					Msg("Issued dashboard session")
			}

			w.Header().Set(SessionHeader, sess.ID)

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			ctx = logging.ContextWithSessionID(ctx, sess.ID)
			next(w, r.WithContext(ctx))
		}
	}
}

// GetSession returns the session stored by Session, or nil.
func GetSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}
