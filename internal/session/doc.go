// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package session owns the dashboard sessions of the service.

Each session holds exactly one store.Store, the root aggregation state of one
dashboard, plus its own package color assignments. Sessions are identified by
an opaque UUID that clients send back in the X-Session-ID header.

# Lifecycle

A session is created on first use and starts loading the default aggregation
kind immediately. Every access extends its idle deadline. Sessions that stay
idle longer than the configured timeout are evicted by the janitor, and their
store is closed, which cancels any pending fetch.

# Capacity

Manager refuses to create sessions beyond MaxSessions and returns
ErrTooManySessions. Expired sessions are swept before a request is refused.

# Hooks

WithOnCreate and WithOnEvict let other components (the WebSocket hub) follow
session lifecycle without this package importing them.
*/
package session
