// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Package service orchestrates the recommendation pipeline: it wires
// emotion updates, feedback, and profile settings to the engine and
// learner, and throttles per-user batch regeneration.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/moodcast/moodcast/internal/metrics"
	"github.com/moodcast/moodcast/internal/recommend"
)

// Service is the orchestration facade used by every transport (HTTP
// and websocket). It is safe for concurrent use.
type Service struct {
	engine   *recommend.Engine
	learner  *recommend.Learner
	catalog  *recommend.Catalog
	profiles *recommend.ProfileStore
	logger   zerolog.Logger

	threshold time.Duration
	started   time.Time

	mu    sync.Mutex
	users map[string]*userState
}

// userState tracks per-user throttle state. The limiter admits one
// fresh batch per threshold window; a change of emotion label bypasses
// the window entirely.
type userState struct {
	limiter   *rate.Limiter
	lastLabel recommend.EmotionLabel
	hasLabel  bool
}

// New wires the service to its collaborators. A threshold of zero
// disables throttling.
func New(engine *recommend.Engine, learner *recommend.Learner, catalog *recommend.Catalog,
	profiles *recommend.ProfileStore, threshold time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		engine:    engine,
		learner:   learner,
		catalog:   catalog,
		profiles:  profiles,
		logger:    logger.With().Str("component", "service").Logger(),
		threshold: threshold,
		started:   time.Now(),
		users:     make(map[string]*userState),
	}
}

// EmotionDecision is the outcome of one ingested emotion reading.
type EmotionDecision struct {
	// Throttled is true when the reading was recorded but no fresh
	// batch was produced because the update window has not elapsed.
	Throttled bool `json:"throttled"`

	// EmotionChanged is true when the label differs from the user's
	// previous reading, which bypasses the throttle.
	EmotionChanged bool `json:"emotion_changed"`

	// Result is the fresh batch, nil when throttled.
	Result *recommend.Result `json:"result,omitempty"`
}

// ProcessEmotionUpdate ingests one emotion reading: the observation is
// always folded into the profile, and a fresh recommendation batch is
// produced unless the user's update window is still open. A label
// change always produces a fresh batch.
func (s *Service) ProcessEmotionUpdate(ctx context.Context, userID string, state recommend.EmotionalState, count int, source string) (*EmotionDecision, error) {
	state = state.Clamp()
	if err := s.learner.OnEmotionObserved(userID, state); err != nil {
		return nil, err
	}
	metrics.EmotionUpdatesTotal.WithLabelValues(state.Label.String(), source).Inc()
	metrics.ActiveProfiles.Set(float64(s.profiles.Len()))

	changed, allowed := s.admit(userID, state.Label)
	if !allowed {
		metrics.RecommendationsThrottled.Inc()
		return &EmotionDecision{Throttled: true}, nil
	}

	result, err := s.recommend(ctx, recommend.Request{
		UserID: userID,
		State:  state,
		Count:  count,
	})
	if err != nil {
		return nil, err
	}
	return &EmotionDecision{EmotionChanged: changed, Result: result}, nil
}

// admit decides whether a fresh batch may be produced now. It reports
// whether the label changed and whether the update is admitted.
func (s *Service) admit(userID string, label recommend.EmotionLabel) (changed, allowed bool) {
	if s.threshold <= 0 {
		return false, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.users[userID]
	if !ok {
		st = &userState{limiter: rate.NewLimiter(rate.Every(s.threshold), 1)}
		s.users[userID] = st
	}

	changed = st.hasLabel && st.lastLabel != label
	st.lastLabel = label
	st.hasLabel = true

	if changed {
		// A label change regenerates immediately and restarts the
		// window by draining whatever token is available.
		_ = st.limiter.Allow()
		return true, true
	}
	return false, st.limiter.Allow()
}

// Recommend produces a batch directly, bypassing the update throttle.
func (s *Service) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	return s.recommend(ctx, req)
}

func (s *Service) recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	started := time.Now()
	result, err := s.engine.Recommend(ctx, req)
	if err != nil {
		metrics.RecommendationErrors.WithLabelValues(errorReason(err)).Inc()
		return nil, err
	}
	metrics.ObserveRecommendation(result.Metadata.Emotion, result.Metadata.IntensityTier,
		len(result.Items), time.Since(started))
	return result, nil
}

// ApplyFeedback folds one feedback event into the user's profile.
func (s *Service) ApplyFeedback(ctx context.Context, fb recommend.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.learner.OnFeedback(fb); err != nil {
		return err
	}
	metrics.FeedbackTotal.WithLabelValues(fb.Type.String()).Inc()
	return nil
}

// Profile returns a copy of one user's profile.
func (s *Service) Profile(userID string) *recommend.UserProfile {
	return s.profiles.Snapshot(userID)
}

// Settings carries a partial profile-settings update. Nil fields are
// left unchanged.
type Settings struct {
	AdaptationTier      *string  `json:"adaptation_tier,omitempty"`
	DiversityPreference *float64 `json:"diversity_preference,omitempty"`
}

// UpdateSettings applies a partial settings update atomically from the
// caller's perspective: the first invalid field aborts the call.
func (s *Service) UpdateSettings(userID string, settings Settings) error {
	if settings.AdaptationTier != nil {
		tier, err := recommend.ParseAdaptationTier(*settings.AdaptationTier)
		if err != nil {
			return err
		}
		if err := s.learner.SetAdaptationTier(userID, tier); err != nil {
			return err
		}
	}
	if settings.DiversityPreference != nil {
		if err := s.learner.SetDiversityPreference(userID, *settings.DiversityPreference); err != nil {
			return err
		}
	}
	return nil
}

// UpsertContent indexes one record and refreshes the catalog gauge.
func (s *Service) UpsertContent(rec recommend.ContentRecord) error {
	if err := s.catalog.Upsert(rec); err != nil {
		return err
	}
	metrics.CatalogSize.Set(float64(s.catalog.Len()))
	return nil
}

// Status is the operational snapshot served by the status endpoint.
type Status struct {
	UptimeSeconds   int64 `json:"uptime_seconds"`
	CatalogRecords  int   `json:"catalog_records"`
	ActiveProfiles  int   `json:"active_profiles"`
	ThrottleSeconds int64 `json:"throttle_seconds"`
}

// Status reports the service's operational snapshot.
func (s *Service) Status() Status {
	return Status{
		UptimeSeconds:   int64(time.Since(s.started).Seconds()),
		CatalogRecords:  s.catalog.Len(),
		ActiveProfiles:  s.profiles.Len(),
		ThrottleSeconds: int64(s.threshold.Seconds()),
	}
}

// errorReason maps engine errors to stable metric labels.
func errorReason(err error) string {
	switch {
	case errors.Is(err, recommend.ErrUnknownEmotionLabel):
		return "unknown_emotion"
	case errors.Is(err, recommend.ErrEmptyCatalog):
		return "empty_catalog"
	default:
		return "internal"
	}
}
