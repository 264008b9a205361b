// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Feedback is one explicit reaction to a previously recommended item.
type Feedback struct {
	// UserID identifies the reacting user.
	UserID string `json:"user_id"`

	// ContentID identifies the item reacted to. Must be indexed.
	ContentID string `json:"content_id"`

	// Type is the reaction kind.
	Type FeedbackType `json:"type"`

	// Emotion is the label active when the item was recommended. When
	// the caller omits it the profile's last observed emotion is used.
	Emotion EmotionLabel `json:"emotion"`

	// EmotionSet reports whether Emotion was provided by the caller.
	EmotionSet bool `json:"emotion_set"`
}

// Learner folds feedback events and emotion observations into user
// profiles. All mutations go through the profile store's per-user
// write lock.
type Learner struct {
	profiles     *ProfileStore
	catalog      *Catalog
	historyLimit int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLearner wires a learner to its profile store and catalog. The
// history limit must match the engine's so both writers evict under
// the same bound.
func NewLearner(profiles *ProfileStore, catalog *Catalog, historyLimit int, logger zerolog.Logger) *Learner {
	return &Learner{
		profiles:     profiles,
		catalog:      catalog,
		historyLimit: historyLimit,
		logger:       logger.With().Str("component", "learner").Logger(),
		now:          time.Now,
	}
}

// OnFeedback applies one feedback event: each of the content's
// categories moves by adaptationRate * polarity (clamped to the weight
// bounds), the per-emotion success counters record one attempt counted
// as a success only for positive polarity, and the reaction is written
// into the profile's history. Unknown content ids fail with
// ErrUnknownContent before any profile mutation.
func (l *Learner) OnFeedback(fb Feedback) error {
	rec, err := l.catalog.Get(fb.ContentID)
	if err != nil {
		return fmt.Errorf("feedback for user %q: %w", fb.UserID, err)
	}

	polarity := fb.Type.Polarity()
	err = l.profiles.Update(fb.UserID, func(p *UserProfile) error {
		emotion := l.feedbackEmotion(fb, p)
		delta := p.Adaptation.Rate() * polarity
		for _, cat := range rec.Categories {
			p.adjustWeight(cat, delta)
			p.bumpSuccess(emotion, cat, polarity > 0)
		}
		p.recordFeedback(fb.ContentID, emotion, fb.Type.String(), l.now(), l.historyLimit)
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Debug().
		Str("user_id", fb.UserID).
		Str("content_id", fb.ContentID).
		Str("type", fb.Type.String()).
		Float64("polarity", polarity).
		Msg("feedback applied")
	return nil
}

// feedbackEmotion resolves the emotion an event is attributed to:
// the caller-provided label when set, else the profile's last observed
// label, else neutral.
func (l *Learner) feedbackEmotion(fb Feedback, p *UserProfile) string {
	if fb.EmotionSet && fb.Emotion.Valid() {
		return fb.Emotion.String()
	}
	if p.LastEmotion != "" {
		return p.LastEmotion
	}
	return EmotionNeutral.String()
}

// OnEmotionObserved records one emotion reading. It mutates only the
// activity pattern and the last-known emotion; category weights and
// success counters move exclusively through OnFeedback.
func (l *Learner) OnEmotionObserved(userID string, state EmotionalState) error {
	state = state.Clamp()
	if !state.Label.Valid() {
		return fmt.Errorf("emotion observation for user %q: %w", userID, ErrUnknownEmotionLabel)
	}
	ts := state.Timestamp
	if ts.IsZero() {
		ts = l.now()
	}
	return l.profiles.Update(userID, func(p *UserProfile) error {
		p.ActivityPattern[ts.Hour()]++
		p.LastEmotion = state.Label.String()
		p.LastEmotionAt = ts
		return nil
	})
}

// SetAdaptationTier switches a user's learning rate tier.
func (l *Learner) SetAdaptationTier(userID string, tier AdaptationTier) error {
	switch tier {
	case AdaptFast, AdaptMedium, AdaptSlow:
	default:
		return fmt.Errorf("adaptation tier %d: %w", int(tier), ErrInvalidProfileConfig)
	}
	return l.profiles.Update(userID, func(p *UserProfile) error {
		p.Adaptation = tier
		return nil
	})
}

// SetDiversityPreference sets a user's appetite for variety. Values
// outside [0, 1] fail with ErrInvalidProfileConfig.
func (l *Learner) SetDiversityPreference(userID string, pref float64) error {
	if pref < 0 || pref > 1 {
		return fmt.Errorf("diversity preference %v out of [0,1]: %w", pref, ErrInvalidProfileConfig)
	}
	return l.profiles.Update(userID, func(p *UserProfile) error {
		p.DiversityPreference = pref
		return nil
	})
}
