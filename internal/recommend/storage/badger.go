// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Package storage persists user-profile snapshots in BadgerDB so
// learned preferences survive restarts. The content catalog itself is
// never persisted here; only profiles are.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/recommend"
)

// profileKeyPrefix namespaces profile snapshot keys.
const profileKeyPrefix = "profile:"

// ErrProfileNotFound is returned when no snapshot exists for a user.
var ErrProfileNotFound = errors.New("profile snapshot not found")

// SnapshotStore is a BadgerDB-backed store of per-user profile
// snapshots, keyed by user id with JSON values.
type SnapshotStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the store at the given directory.
func Open(path string, logger zerolog.Logger) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store at %s: %w", path, err)
	}
	return NewSnapshotStore(db, logger), nil
}

// NewSnapshotStore wraps an already-open BadgerDB handle. The caller
// keeps ownership of the handle unless Close is used.
func NewSnapshotStore(db *badger.DB, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:     db,
		logger: logger.With().Str("component", "snapshot_store").Logger(),
	}
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save writes one profile snapshot.
func (s *SnapshotStore) Save(ctx context.Context, profile *recommend.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("snapshot missing user id")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", profile.UserID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+profile.UserID), data)
	})
}

// SaveAll writes a batch of snapshots in a single transaction per
// profile, stopping at the first failure.
func (s *SnapshotStore) SaveAll(ctx context.Context, profiles []*recommend.UserProfile) error {
	for _, p := range profiles {
		if err := s.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Load reads one profile snapshot, or ErrProfileNotFound.
func (s *SnapshotStore) Load(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var profile recommend.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("user %q: %w", userID, ErrProfileNotFound)
		}
		if err != nil {
			return fmt.Errorf("get profile %s: %w", userID, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadAll reads every stored snapshot. Corrupt entries are skipped
// with a warning rather than failing the whole restore.
func (s *SnapshotStore) LoadAll(ctx context.Context) ([]*recommend.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var profiles []*recommend.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(profileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var profile recommend.UserProfile
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &profile)
			})
			if err != nil {
				s.logger.Warn().Err(err).
					Str("key", string(item.Key())).
					Msg("skipping unreadable profile snapshot")
				continue
			}
			profiles = append(profiles, &profile)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	return profiles, nil
}

// Delete removes one snapshot. Deleting a missing snapshot is not an
// error.
func (s *SnapshotStore) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(profileKeyPrefix + userID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete profile %s: %w", userID, err)
		}
		return nil
	})
}
