// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/recommend"
)

func newTestService(t *testing.T, threshold time.Duration) *Service {
	t.Helper()
	catalog := recommend.NewCatalog()
	if err := recommend.SeedSampleCatalog(catalog); err != nil {
		t.Fatalf("seed: %v", err)
	}
	profiles := recommend.NewProfileStore()
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.MustStrategyTable(),
		catalog, profiles, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	learner := recommend.NewLearner(profiles, catalog, recommend.DefaultConfig().HistoryLimit, zerolog.Nop())
	return New(engine, learner, catalog, profiles, threshold, zerolog.Nop())
}

func reading(label recommend.EmotionLabel, intensity float64) recommend.EmotionalState {
	return recommend.EmotionalState{
		Label:     label,
		Intensity: intensity,
		VA:        recommend.VAPoint{Valence: 0.4, Arousal: 0.2},
		Timestamp: time.Now(),
	}
}

func TestProcessEmotionUpdateProducesBatch(t *testing.T) {
	svc := newTestService(t, 0)

	dec, err := svc.ProcessEmotionUpdate(context.Background(), "u1",
		reading(recommend.EmotionHappy, 60), 5, "http")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if dec.Throttled {
		t.Fatal("first update should not be throttled")
	}
	if dec.Result == nil || len(dec.Result.Items) == 0 {
		t.Fatal("expected a fresh batch")
	}
}

func TestProcessEmotionUpdateThrottlesRepeats(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	first, err := svc.ProcessEmotionUpdate(ctx, "u1", reading(recommend.EmotionHappy, 60), 5, "http")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Throttled {
		t.Fatal("first update should pass the throttle")
	}

	second, err := svc.ProcessEmotionUpdate(ctx, "u1", reading(recommend.EmotionHappy, 65), 5, "http")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.Throttled || second.Result != nil {
		t.Fatal("same-label update inside the window should be throttled")
	}

	// The reading is still learned even when throttled.
	profile := svc.Profile("u1")
	total := int64(0)
	for _, n := range profile.ActivityPattern {
		total += n
	}
	if total != 2 {
		t.Errorf("activity total = %d, want 2", total)
	}
}

func TestProcessEmotionUpdateLabelChangeBypassesThrottle(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	if _, err := svc.ProcessEmotionUpdate(ctx, "u1", reading(recommend.EmotionHappy, 60), 5, "http"); err != nil {
		t.Fatalf("first: %v", err)
	}
	dec, err := svc.ProcessEmotionUpdate(ctx, "u1", reading(recommend.EmotionSad, 60), 5, "http")
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if dec.Throttled {
		t.Fatal("label change must bypass the throttle")
	}
	if !dec.EmotionChanged {
		t.Error("decision should report the label change")
	}
	if dec.Result == nil {
		t.Fatal("expected a fresh batch on label change")
	}
}

func TestProcessEmotionUpdateIsolatesUsers(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	if _, err := svc.ProcessEmotionUpdate(ctx, "u1", reading(recommend.EmotionHappy, 60), 5, "http"); err != nil {
		t.Fatalf("u1: %v", err)
	}
	dec, err := svc.ProcessEmotionUpdate(ctx, "u2", reading(recommend.EmotionHappy, 60), 5, "http")
	if err != nil {
		t.Fatalf("u2: %v", err)
	}
	if dec.Throttled {
		t.Fatal("one user's window must not throttle another user")
	}
}

func TestRecommendBypassesThrottle(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	if _, err := svc.ProcessEmotionUpdate(ctx, "u1", reading(recommend.EmotionHappy, 60), 5, "http"); err != nil {
		t.Fatalf("update: %v", err)
	}
	res, err := svc.Recommend(ctx, recommend.Request{
		UserID: "u1", State: reading(recommend.EmotionHappy, 60), Count: 3,
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(res.Items) == 0 {
		t.Fatal("explicit recommend must not be throttled")
	}
}

func TestApplyFeedback(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	err := svc.ApplyFeedback(ctx, recommend.Feedback{
		UserID: "u1", ContentID: "v001", Type: recommend.FeedbackLike,
		Emotion: recommend.EmotionHappy, EmotionSet: true,
	})
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}

	profile := svc.Profile("u1")
	if profile.CategoryWeights[recommend.CategoryComedy] <= 0 {
		t.Errorf("like did not raise comedy weight: %v", profile.CategoryWeights)
	}

	err = svc.ApplyFeedback(ctx, recommend.Feedback{
		UserID: "u1", ContentID: "ghost", Type: recommend.FeedbackLike,
	})
	if !errors.Is(err, recommend.ErrUnknownContent) {
		t.Errorf("expected ErrUnknownContent, got %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	svc := newTestService(t, 0)

	tier := "fast"
	pref := 0.9
	if err := svc.UpdateSettings("u1", Settings{AdaptationTier: &tier, DiversityPreference: &pref}); err != nil {
		t.Fatalf("settings: %v", err)
	}
	profile := svc.Profile("u1")
	if profile.Adaptation != recommend.AdaptFast {
		t.Errorf("tier = %v, want fast", profile.Adaptation)
	}
	if profile.DiversityPreference != 0.9 {
		t.Errorf("diversity = %v, want 0.9", profile.DiversityPreference)
	}

	bad := "turbo"
	if err := svc.UpdateSettings("u1", Settings{AdaptationTier: &bad}); !errors.Is(err, recommend.ErrInvalidProfileConfig) {
		t.Errorf("expected ErrInvalidProfileConfig, got %v", err)
	}
	outOfRange := 1.5
	if err := svc.UpdateSettings("u1", Settings{DiversityPreference: &outOfRange}); !errors.Is(err, recommend.ErrInvalidProfileConfig) {
		t.Errorf("expected ErrInvalidProfileConfig, got %v", err)
	}
}

func TestUpsertContentAndStatus(t *testing.T) {
	svc := newTestService(t, 3*time.Second)

	before := svc.Status()
	err := svc.UpsertContent(recommend.ContentRecord{
		ID:         "new1",
		Title:      "fresh upload",
		Categories: []recommend.Category{recommend.CategoryMusic},
		Duration:   2 * time.Minute,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	after := svc.Status()
	if after.CatalogRecords != before.CatalogRecords+1 {
		t.Errorf("catalog records = %d, want %d", after.CatalogRecords, before.CatalogRecords+1)
	}
	if after.ThrottleSeconds != 3 {
		t.Errorf("throttle seconds = %d, want 3", after.ThrottleSeconds)
	}

	if err := svc.UpsertContent(recommend.ContentRecord{ID: "bad"}); !errors.Is(err, recommend.ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", err)
	}
}
