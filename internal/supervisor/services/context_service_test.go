// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package services

import (
	"context"
	"errors"
	"testing"
)

type fakeRunner struct {
	started chan struct{}
}

func (f *fakeRunner) RunWithContext(ctx context.Context) error {
	close(f.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestContextServiceDelegates(t *testing.T) {
	runner := &fakeRunner{started: make(chan struct{})}
	svc := NewStreamHubService(runner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-runner.started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("serve returned %v, want context.Canceled", err)
	}
}

func TestContextServiceNames(t *testing.T) {
	if got := NewStreamHubService(nil).String(); got != "stream-hub" {
		t.Errorf("hub service name = %q", got)
	}
	if got := NewSnapshotFlusherService(nil).String(); got != "snapshot-flusher" {
		t.Errorf("flusher service name = %q", got)
	}
}
