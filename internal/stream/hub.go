// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Package stream serves the realtime emotion channel: clients push
// emotion readings over a websocket and receive recommendation batches
// on the same connection. A hub tracks connections for announcements
// and graceful shutdown.
package stream

import (
	"context"
	"sort"
	"sync"

	"github.com/moodcast/moodcast/internal/logging"
	"github.com/moodcast/moodcast/internal/metrics"
)

// Message types exchanged on the stream.
const (
	MessageTypeEmotion         = "emotion"
	MessageTypeRecommendations = "recommendations"
	MessageTypeThrottled       = "throttled"
	MessageTypeError           = "error"
	MessageTypePing            = "ping"
	MessageTypePong            = "pong"
	MessageTypeAnnouncement    = "announcement"
)

// Message is the framing for every websocket payload.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active stream clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub. Run it with RunWithContext before
// registering clients.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext processes client lifecycle and broadcast events until
// the context is canceled, then closes every connection. Lifecycle
// events take priority over broadcasts so client state is consistent
// before messages are fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Drain lifecycle events before touching the broadcast queue.
		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.StreamConnections.Set(float64(total))
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).
		Msg("stream client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.StreamConnections.Set(float64(total))
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).
		Msg("stream client disconnected")
}

// broadcastToClients fans one message out to every client in id order.
// Clients with a full send queue are dropped; a slow consumer must not
// stall the hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.StreamConnections.Set(float64(len(h.clients)))
	}
}

// Broadcast queues one message for every connected client. The message
// is dropped when the queue is full.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).
			Msg("broadcast queue full, dropping stream message")
	}
}

// AnnounceContent tells connected clients that a new video was indexed.
func (h *Hub) AnnounceContent(contentID, title string) {
	h.Broadcast(MessageTypeAnnouncement, map[string]string{
		"event":      "content_indexed",
		"content_id": contentID,
		"title":      title,
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.StreamConnections.Set(0)
	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "stream-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("stream hub stopped")
}
