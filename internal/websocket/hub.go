// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/session"
	"github.com/tomtom215/offspot-metrics/internal/store"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeStateChanged = "state_changed"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// sessionMessage is a message addressed to the clients of one session.
type sessionMessage struct {
	sessionID string
	message   Message
}

// Hub maintains the active clients, grouped by session.
type Hub struct {
	clients  map[*Client]bool
	sessions map[string]map[*Client]bool

	broadcast    chan sessionMessage
	closeSession chan string
	Register     chan *Client
	Unregister   chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		sessions:     make(map[string]map[*Client]bool),
		broadcast:    make(chan sessionMessage, 256),
		closeSession: make(chan string, 64),
		Register:     make(chan *Client),
		Unregister:   make(chan *Client),
	}
}

// RunWithContext runs the hub until ctx is done, then closes every client and
// returns ctx.Err(). It is meant to run under a supervisor.
//
// Shutdown is checked first, then client lifecycle events, then messages, so
// a client registered before a message is queued always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case id := <-h.closeSession:
			h.closeSessionClients(id)
		case msg := <-h.broadcast:
			h.sendToSession(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	group, ok := h.sessions[client.sessionID]
	if !ok {
		group = make(map[*Client]bool)
		h.sessions[client.sessionID] = group
	}
	group[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().
		Str("session_id", client.sessionID).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	removed := h.dropClientLocked(client)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		metrics.WSConnections.Set(float64(total))
		logging.Info().
			Str("session_id", client.sessionID).
			Int("total_clients", total).
			Msg("websocket client disconnected")
	}
}

// dropClientLocked closes the client's queue and forgets it. It must be
// called with mu held and reports whether the client was registered.
func (h *Hub) dropClientLocked(client *Client) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	if group, ok := h.sessions[client.sessionID]; ok {
		delete(group, client)
		if len(group) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	close(client.send)
	return true
}

// sortedClients orders clients by id so delivery and close order are stable.
func sortedClients(set map[*Client]bool) []*Client {
	clients := make([]*Client, 0, len(set))
	for client := range set {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// sendToSession queues msg on every client of its session. Clients whose
// queue is full are disconnected.
func (h *Hub) sendToSession(msg sessionMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group := h.sessions[msg.sessionID]
	if len(group) == 0 {
		return
	}

	var toRemove []*Client
	for _, client := range sortedClients(group) {
		select {
		case client.send <- msg.message:
			metrics.WSMessagesSent.Inc()
		default:
			metrics.WSMessagesDropped.Inc()
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		h.dropClientLocked(client)
		logging.Warn().
			Str("session_id", client.sessionID).
			Uint64("client_id", client.id).
			Msg("websocket client too slow, disconnected")
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) closeSessionClients(sessionID string) {
	h.mu.Lock()
	group := h.sessions[sessionID]
	clients := sortedClients(group)
	for _, client := range clients {
		h.dropClientLocked(client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if len(clients) > 0 {
		metrics.WSConnections.Set(float64(total))
		logging.Info().
			Str("session_id", sessionID).
			Int("clients_closed", len(clients)).
			Msg("closed websocket clients of evicted session")
	}
}

// logGracefulShutdown closes every client and logs the shutdown. The context
// error is not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range sortedClients(h.clients) {
		h.dropClientLocked(client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastToSession queues a message for every client of sessionID.
// It never blocks; when the hub is saturated the message is dropped.
func (h *Hub) BroadcastToSession(sessionID, messageType string, data interface{}) {
	msg := sessionMessage{
		sessionID: sessionID,
		message:   Message{Type: messageType, Data: data},
	}

	select {
	case h.broadcast <- msg:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().
			Str("session_id", sessionID).
			Str("message_type", messageType).
			Msg("broadcast channel full, dropping message")
	}
}

// BroadcastState pushes a state_changed message for st.
func (h *Hub) BroadcastState(sessionID string, st store.State) {
	h.BroadcastToSession(sessionID, MessageTypeStateChanged, st.WithoutDetails())
}

// Attach forwards every change of the session's store to its clients.
// The subscription ends when the store is closed.
func (h *Hub) Attach(sess *session.Session) {
	id := sess.ID
	sess.Store.OnChange(func(st store.State) {
		h.BroadcastState(id, st)
	})
}

// Detach disconnects the clients of an evicted session.
func (h *Hub) Detach(sess *session.Session) {
	select {
	case h.closeSession <- sess.ID:
	default:
		logging.Warn().Str("session_id", sess.ID).Msg("close queue full, clients of evicted session left to time out")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of clients of one session.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
