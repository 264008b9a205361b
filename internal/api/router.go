// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Package api exposes the recommendation engine over HTTP with Chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/config"
	"github.com/moodcast/moodcast/internal/service"
)

// NewRouter builds the full HTTP routing tree. The stream handler is
// optional; passing nil leaves the stream endpoint unregistered.
func NewRouter(svc *service.Service, cfg *config.Config, streamHandler http.Handler, announcer Announcer, logger zerolog.Logger) http.Handler {
	h := NewHandler(svc, announcer, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(newCORS(cfg.Security))

	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(newRateLimit(cfg.Security))
		r.Use(observeRequests)

		r.Post("/emotion", h.handleEmotionUpdate)
		r.Post("/recommend", h.handleRecommend)
		r.Post("/feedback", h.handleFeedback)
		r.Post("/content", h.handleUpsertContent)
		r.Get("/status", h.handleStatus)

		r.Route("/profile/{userID}", func(r chi.Router) {
			r.Get("/", h.handleProfile)
			r.Put("/settings", h.handleUpdateSettings)
		})

		if streamHandler != nil {
			r.Handle("/stream", streamHandler)
		}
	})

	return r
}
