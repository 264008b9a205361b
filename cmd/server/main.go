// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Command server runs the Moodcast recommendation service: the REST
// API, the websocket emotion stream, and the profile snapshot flusher,
// all under a suture supervision tree.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/moodcast/moodcast/internal/api"
	"github.com/moodcast/moodcast/internal/config"
	"github.com/moodcast/moodcast/internal/logging"
	"github.com/moodcast/moodcast/internal/metrics"
	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/internal/recommend/storage"
	"github.com/moodcast/moodcast/internal/service"
	"github.com/moodcast/moodcast/internal/stream"
	"github.com/moodcast/moodcast/internal/supervisor"
	"github.com/moodcast/moodcast/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("stream", cfg.Stream.Enabled).
		Bool("snapshots", cfg.Snapshot.Enabled).
		Dur("update_threshold", cfg.Service.UpdateThreshold).
		Msg("Starting Moodcast")

	// Core pipeline: catalog -> engine -> learner -> service.
	catalog := recommend.NewCatalog()
	if cfg.Catalog.SeedDemo {
		if err := recommend.SeedSampleCatalog(catalog); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo catalog")
		}
		logging.Info().Int("records", catalog.Len()).Msg("Demo catalog seeded")
	}
	metrics.CatalogSize.Set(float64(catalog.Len()))

	profiles := recommend.NewProfileStore()
	engine, err := recommend.NewEngine(cfg.Engine, recommend.MustStrategyTable(), catalog, profiles, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}
	learner := recommend.NewLearner(profiles, catalog, cfg.Engine.HistoryLimit, logging.Logger())
	svc := service.New(engine, learner, catalog, profiles, cfg.Service.UpdateThreshold, logging.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Profile persistence: restore what survived the last run, then
	// keep flushing under supervision.
	var flusher *storage.Flusher
	if cfg.Snapshot.Enabled {
		store, err := storage.Open(cfg.Snapshot.Path, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Snapshot.Path).Msg("Failed to open snapshot store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing snapshot store")
			}
		}()

		flusher = storage.NewFlusher(store, profiles, cfg.Snapshot.FlushInterval, logging.Logger())
		restored, err := flusher.RestoreAll(ctx)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to restore profile snapshots")
		}
		metrics.ActiveProfiles.Set(float64(profiles.Len()))
		logging.Info().Int("profiles", restored).Msg("Profile snapshots restored")
	}

	// Realtime emotion stream.
	var hub *stream.Hub
	var streamHandler http.Handler
	var announcer api.Announcer
	if cfg.Stream.Enabled {
		hub = stream.NewHub()
		streamHandler = stream.NewHandler(hub, svc, cfg.Stream, logging.Logger())
		announcer = hub
	}

	router := api.NewRouter(svc, cfg, streamHandler, announcer, logging.Logger())
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if flusher != nil {
		tree.AddPersistenceService(services.NewSnapshotFlusherService(flusher))
	}
	if hub != nil {
		tree.AddStreamService(services.NewStreamHubService(hub))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Moodcast stopped gracefully")
}
