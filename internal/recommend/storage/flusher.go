// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/metrics"
	"github.com/moodcast/moodcast/internal/recommend"
)

// Flusher periodically persists every in-memory profile to the
// snapshot store, and performs one final flush on shutdown.
type Flusher struct {
	store    *SnapshotStore
	profiles *recommend.ProfileStore
	interval time.Duration
	logger   zerolog.Logger
}

// NewFlusher wires the flusher to its stores.
func NewFlusher(store *SnapshotStore, profiles *recommend.ProfileStore,
	interval time.Duration, logger zerolog.Logger) *Flusher {
	return &Flusher{
		store:    store,
		profiles: profiles,
		interval: interval,
		logger:   logger.With().Str("component", "snapshot_flusher").Logger(),
	}
}

// RunWithContext flushes on every tick until the context is canceled.
// The shutdown flush uses a fresh context so learned state is not lost
// when the run context is already dead.
func (f *Flusher) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			f.Flush(flushCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush persists every known profile. Failures are logged and counted,
// not propagated; one bad profile must not stop the rest.
func (f *Flusher) Flush(ctx context.Context) {
	userIDs := f.profiles.UserIDs()
	if len(userIDs) == 0 {
		return
	}

	var failed int
	for _, userID := range userIDs {
		profile := f.profiles.Snapshot(userID)
		if profile == nil {
			continue
		}
		if err := f.store.Save(ctx, profile); err != nil {
			failed++
			metrics.SnapshotErrors.Inc()
			f.logger.Error().Err(err).Str("user_id", userID).Msg("profile flush failed")
		}
	}

	if failed == 0 {
		metrics.ObserveSnapshotFlush()
	}
	f.logger.Debug().Int("profiles", len(userIDs)).Int("failed", failed).Msg("profile snapshot flush")
}

// RestoreAll loads every persisted snapshot into the profile store.
// Invalid snapshots are skipped with a warning.
func (f *Flusher) RestoreAll(ctx context.Context) (int, error) {
	profiles, err := f.store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	var restored int
	for _, p := range profiles {
		if err := f.profiles.Restore(p); err != nil {
			f.logger.Warn().Err(err).Str("user_id", p.UserID).Msg("skipping invalid profile snapshot")
			continue
		}
		restored++
	}
	return restored, nil
}
