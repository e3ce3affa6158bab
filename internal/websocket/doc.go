// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package websocket pushes dashboard state changes to connected browsers.

It uses gorilla/websocket with a hub-and-client design:

  - Hub: owns every connection, grouped by dashboard session, and delivers
    messages to the clients of one session
  - Client: one connection with a read pump (ping requests, pong frames) and a
    write pump (queued messages, keepalive pings)

Every client belongs to exactly one session. When the session's store changes,
the hub sends

	{"type":"state_changed","data":{...state without the details document...}}

to all clients of that session. The details document is left out because it
only changes on a completed fetch and can be large; clients read it, or the KPI
views built from it, over HTTP when the version moves.

Clients may send {"type":"ping"} and receive {"type":"pong"}.

Wiring:

	hub := websocket.NewHub()
	sessions := session.NewManager(fetcher, &cfg.Session,
	    session.WithOnCreate(hub.Attach),
	    session.WithOnEvict(hub.Detach),
	)
	go hub.RunWithContext(ctx) // or supervised as WebSocketHubService

Delivery is best effort: a client whose queue is full is disconnected rather
than allowed to slow the hub down.
*/
package websocket
