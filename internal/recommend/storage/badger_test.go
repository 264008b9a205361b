// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/recommend"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSnapshotStore(db, zerolog.Nop())
}

func testProfile(userID string) *recommend.UserProfile {
	profiles := recommend.NewProfileStore()
	err := profiles.Update(userID, func(p *recommend.UserProfile) error {
		p.CategoryWeights[recommend.CategoryComedy] = 0.8
		p.DiversityPreference = 0.7
		return nil
	})
	if err != nil {
		panic(err)
	}
	return profiles.Snapshot(userID)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := testProfile("u1")
	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.UserID != "u1" {
		t.Errorf("user id = %q, want u1", loaded.UserID)
	}
	if loaded.CategoryWeights[recommend.CategoryComedy] != 0.8 {
		t.Errorf("weight = %v, want 0.8", loaded.CategoryWeights[recommend.CategoryComedy])
	}
	if loaded.DiversityPreference != 0.7 {
		t.Errorf("diversity = %v, want 0.7", loaded.DiversityPreference)
	}
}

func TestLoadMissingProfile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "ghost")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestSaveRejectsInvalidSnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
	if err := store.Save(ctx, &recommend.UserProfile{}); err == nil {
		t.Error("expected error for snapshot without user id")
	}
}

func TestLoadAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		if err := store.Save(ctx, testProfile(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	profiles, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("loaded %d profiles, want 3", len(profiles))
	}
	seen := make(map[string]bool)
	for _, p := range profiles {
		seen[p.UserID] = true
	}
	for _, id := range []string{"u1", "u2", "u3"} {
		if !seen[id] {
			t.Errorf("profile %s missing from load all", id)
		}
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testProfile("u1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound after delete, got %v", err)
	}
	// Deleting again is not an error.
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	if err := store.Save(ctx, testProfile("u1")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}
