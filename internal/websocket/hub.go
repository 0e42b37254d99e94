// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package websocket pushes live platform updates to connected browser
// clients: settled rewards, leaderboard changes, and operator
// announcements. Delivery is best-effort; slow clients are dropped
// rather than allowed to stall the hub.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/playforge/playforge/internal/events"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
)

// Message types for WebSocket communication.
const (
	MessageTypeReward       = "reward_settled"
	MessageTypeLeaderboard  = "leaderboard_update"
	MessageTypeAnnouncement = "announcement"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message represents a WebSocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and fans broadcast messages
// out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Serve runs the hub until ctx is cancelled, then closes all clients.
// Implements the supervisor service contract.
//
// Selection is priority-ordered so behavior stays predictable when
// multiple channels are ready: shutdown first, then client lifecycle,
// then broadcasts. Go's select picks randomly among ready channels,
// which would otherwise let a broadcast race a disconnect.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		// Priority 1: shutdown (non-blocking check)
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: block for the next event of any kind
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String identifies the service in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", len(clients)).
		AnErr("cause", ctx.Err()).
		Msg("websocket hub stopped")
}

// broadcastToClients sends a message to every connected client, in
// client-ID order so delivery is reproducible. Clients whose send
// buffer is full are dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

// BroadcastReward pushes a settled reward to all clients.
func (h *Hub) BroadcastReward(event *events.RewardEvent) {
	h.enqueue(Message{Type: MessageTypeReward, Data: event})
}

// AnnouncementData is the payload of announcement messages.
type AnnouncementData struct {
	Title     string `json:"title,omitempty"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// BroadcastAnnouncement pushes an operator announcement to all clients.
func (h *Hub) BroadcastAnnouncement(title, body string) {
	h.enqueue(Message{
		Type: MessageTypeAnnouncement,
		Data: AnnouncementData{
			Title:     title,
			Body:      body,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// BroadcastJSON sends an arbitrary typed payload to all clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	h.enqueue(Message{Type: messageType, Data: data})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
