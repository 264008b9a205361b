// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package stream

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/config"
	"github.com/moodcast/moodcast/internal/metrics"
	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/internal/service"
)

// clientIDCounter hands out stable ids so the hub can iterate clients
// in a deterministic order.
var clientIDCounter atomic.Uint64

// EmotionFrame is the inbound payload of an emotion message.
type EmotionFrame struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Count     int     `json:"count"`
}

// Client bridges one websocket connection and the hub. Each client is
// bound to a single user for its whole lifetime.
type Client struct {
	id     uint64
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	userID string
	svc    *service.Service
	cfg    config.StreamConfig
	logger zerolog.Logger
}

// NewClient wraps an upgraded connection for one user.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, svc *service.Service,
	cfg config.StreamConfig, logger zerolog.Logger) *Client {
	return &Client{
		id:     clientIDCounter.Add(1),
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, cfg.SendBuffer),
		userID: userID,
		svc:    svc,
		cfg:    cfg,
		logger: logger.With().Str("component", "stream_client").Str("user_id", userID).Logger(),
	}
}

// ID returns the client's hub ordering id.
func (c *Client) ID() uint64 {
	return c.id
}

// Start begins the read and write pumps. The caller must have
// registered the client with the hub first.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// pongWait is how long a connection may stay silent before it is
// considered dead. Two missed pings end the connection.
func (c *Client) pongWait() time.Duration {
	return 2 * c.cfg.PingInterval
}

// readPump consumes emotion frames until the connection errors out.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.ReadLimit)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.pongWait())); err != nil {
		c.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		metrics.StreamMessagesTotal.WithLabelValues("inbound").Inc()
		c.handleMessage(msg)
	}
}

// handleMessage dispatches one inbound frame.
func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case MessageTypePing:
		c.queue(Message{Type: MessageTypePong})
	case MessageTypeEmotion:
		c.handleEmotion(msg)
	default:
		c.queue(Message{Type: MessageTypeError, Data: map[string]string{
			"code":    "UNKNOWN_MESSAGE",
			"message": "unknown message type: " + msg.Type,
		}})
	}
}

// handleEmotion ingests one reading and replies with a fresh batch or
// a throttled notice.
func (c *Client) handleEmotion(msg Message) {
	var frame EmotionFrame
	if err := remarshal(msg.Data, &frame); err != nil {
		c.queue(Message{Type: MessageTypeError, Data: map[string]string{
			"code":    "BAD_FRAME",
			"message": "malformed emotion frame",
		}})
		return
	}

	label, err := recommend.ParseEmotionLabel(frame.Emotion)
	if err != nil {
		c.queue(Message{Type: MessageTypeError, Data: map[string]string{
			"code":    "UNKNOWN_EMOTION",
			"message": "unknown emotion label: " + frame.Emotion,
		}})
		return
	}

	state := recommend.EmotionalState{
		Label:     label,
		Intensity: frame.Intensity,
		VA:        recommend.VAPoint{Valence: frame.Valence, Arousal: frame.Arousal},
		Timestamp: time.Now(),
	}

	decision, err := c.svc.ProcessEmotionUpdate(context.Background(), c.userID, state, frame.Count, "stream")
	if err != nil {
		c.logger.Error().Err(err).Msg("emotion update failed")
		c.queue(Message{Type: MessageTypeError, Data: map[string]string{
			"code":    "UPDATE_FAILED",
			"message": err.Error(),
		}})
		return
	}

	if decision.Throttled {
		c.queue(Message{Type: MessageTypeThrottled})
		return
	}
	c.queue(Message{Type: MessageTypeRecommendations, Data: decision.Result})
}

// queue enqueues a message for the write pump, dropping it when the
// client cannot keep up.
func (c *Client) queue(msg Message) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn().Str("message_type", msg.Type).Msg("send queue full, dropping message")
	}
}

// writePump drains the send queue and keeps the connection alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error().Err(err).Msg("failed to write message")
				return
			}
			metrics.StreamMessagesTotal.WithLabelValues("outbound").Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
