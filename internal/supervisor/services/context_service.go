// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package services

import (
	"context"
)

// ContextRunner matches components whose run loop already follows the
// suture pattern: block until the context is canceled, then return
// ctx.Err(). Both the stream hub and the snapshot flusher satisfy it.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// ContextService wraps a ContextRunner as a named supervised service.
type ContextService struct {
	runner ContextRunner
	name   string
}

// NewStreamHubService supervises the websocket stream hub.
func NewStreamHubService(hub ContextRunner) *ContextService {
	return &ContextService{runner: hub, name: "stream-hub"}
}

// NewSnapshotFlusherService supervises the profile snapshot flusher.
func NewSnapshotFlusherService(flusher ContextRunner) *ContextService {
	return &ContextService{runner: flusher, name: "snapshot-flusher"}
}

// Serve implements suture.Service.
func (s *ContextService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *ContextService) String() string {
	return s.name
}
