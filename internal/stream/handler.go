// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package stream

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/config"
	"github.com/moodcast/moodcast/internal/service"
)

// Handler upgrades HTTP requests to stream connections.
type Handler struct {
	hub      *Hub
	svc      *service.Service
	cfg      config.StreamConfig
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler builds the upgrade handler. Origin checking is delegated
// to the router's CORS layer, so the upgrader accepts any origin.
func NewHandler(hub *Hub, svc *service.Service, cfg config.StreamConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		svc: svc,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "stream").Logger(),
	}
}

// ServeHTTP upgrades the connection and binds it to the user named in
// the user_id query parameter.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, userID, h.svc, h.cfg, h.logger)
	h.hub.Register <- client
	client.Start()
}

// remarshal converts a decoded JSON value into a concrete type.
func remarshal(data interface{}, v interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
