// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"fmt"
	"sync"
	"time"
)

// AdaptationTier selects how aggressively feedback moves a profile.
type AdaptationTier int

const (
	// AdaptMedium is the default tier.
	AdaptMedium AdaptationTier = iota
	// AdaptFast reacts strongly to each feedback event.
	AdaptFast
	// AdaptSlow reacts weakly to each feedback event.
	AdaptSlow
)

// Rate returns the learning rate for the tier.
func (t AdaptationTier) Rate() float64 {
	switch t {
	case AdaptFast:
		return 0.3
	case AdaptSlow:
		return 0.05
	default:
		return 0.15
	}
}

// String returns the tier name.
func (t AdaptationTier) String() string {
	switch t {
	case AdaptFast:
		return "fast"
	case AdaptSlow:
		return "slow"
	default:
		return "medium"
	}
}

// ParseAdaptationTier converts a string to an AdaptationTier.
func ParseAdaptationTier(s string) (AdaptationTier, error) {
	switch s {
	case "fast":
		return AdaptFast, nil
	case "medium":
		return AdaptMedium, nil
	case "slow":
		return AdaptSlow, nil
	default:
		return AdaptationTier(-1), fmt.Errorf("adaptation tier %q: %w", s, ErrInvalidProfileConfig)
	}
}

// Category weight bounds. Weights below zero express learned dislike;
// weights above one express strong learned preference.
const (
	minCategoryWeight = -1.0
	maxCategoryWeight = 2.0
)

// SuccessCounter tracks how often content from one category worked for
// one emotion: attempts counts recommendations acted on, successes
// counts positive outcomes.
type SuccessCounter struct {
	Attempts  int64 `json:"attempts"`
	Successes int64 `json:"successes"`
}

// Ratio returns successes/attempts, or 0 before any attempt.
func (c SuccessCounter) Ratio() float64 {
	if c.Attempts == 0 {
		return 0
	}
	return float64(c.Successes) / float64(c.Attempts)
}

// HistoryItem is one delivered recommendation remembered by a profile.
// Feedback is empty until the viewer reacts to the item.
type HistoryItem struct {
	ContentID string    `json:"content_id"`
	Emotion   string    `json:"emotion"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile is the mutable learning state for one user. It is always
// accessed through the ProfileStore's per-user lock; the struct itself
// carries no synchronization.
type UserProfile struct {
	// UserID identifies the profile owner.
	UserID string `json:"user_id"`

	// CategoryWeights are learned per-category preferences, clamped to
	// [-1, 2]. Unlisted categories are neutral (0).
	CategoryWeights map[Category]float64 `json:"category_weights"`

	// EmotionCategorySuccess tracks per-emotion, per-category outcome
	// counters keyed by emotion label name.
	EmotionCategorySuccess map[string]map[Category]SuccessCounter `json:"emotion_category_success"`

	// DiversityPreference is the user's appetite for variety in [0, 1].
	DiversityPreference float64 `json:"diversity_preference"`

	// Adaptation selects the learning rate.
	Adaptation AdaptationTier `json:"adaptation"`

	// ActivityPattern counts emotion readings per hour of day (0-23).
	ActivityPattern map[int]int64 `json:"activity_pattern"`

	// History holds the most recent delivered recommendations,
	// oldest first, bounded by the engine's history limit.
	History []HistoryItem `json:"history"`

	// LastEmotion is the name of the most recently observed label.
	LastEmotion string `json:"last_emotion,omitempty"`

	// LastEmotionAt is when the last reading was observed.
	LastEmotionAt time.Time `json:"last_emotion_at,omitempty"`

	// CreatedAt is when the profile was lazily created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on every mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserProfile(userID string, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:                 userID,
		CategoryWeights:        make(map[Category]float64),
		EmotionCategorySuccess: make(map[string]map[Category]SuccessCounter),
		DiversityPreference:    0.5,
		Adaptation:             AdaptMedium,
		ActivityPattern:        make(map[int]int64),
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Weight returns the learned weight for a category (0 when unlearned).
func (p *UserProfile) Weight(cat Category) float64 {
	return p.CategoryWeights[cat]
}

// adjustWeight moves one category weight by delta and clamps the result.
func (p *UserProfile) adjustWeight(cat Category, delta float64) {
	p.CategoryWeights[cat] = clampFloat(p.CategoryWeights[cat]+delta, minCategoryWeight, maxCategoryWeight)
}

// successCounter returns the counter for one emotion/category pair.
func (p *UserProfile) successCounter(emotion string, cat Category) SuccessCounter {
	return p.EmotionCategorySuccess[emotion][cat]
}

// bumpSuccess records one attempt and, when success is true, one
// positive outcome for the emotion/category pair.
func (p *UserProfile) bumpSuccess(emotion string, cat Category, success bool) {
	byCat, ok := p.EmotionCategorySuccess[emotion]
	if !ok {
		byCat = make(map[Category]SuccessCounter)
		p.EmotionCategorySuccess[emotion] = byCat
	}
	counter := byCat[cat]
	counter.Attempts++
	if success {
		counter.Successes++
	}
	byCat[cat] = counter
}

// appendHistory records a delivered recommendation, evicting the oldest
// entries beyond limit.
func (p *UserProfile) appendHistory(item HistoryItem, limit int) {
	p.History = append(p.History, item)
	if over := len(p.History) - limit; over > 0 {
		p.History = append(p.History[:0], p.History[over:]...)
	}
}

// recordFeedback attaches a reaction to the newest unreacted history
// entry for the content. Feedback on content that never went through
// delivery (or whose entry was already evicted) appends a fresh entry
// instead, under the same bound.
func (p *UserProfile) recordFeedback(contentID, emotion, feedback string, ts time.Time, limit int) {
	for i := len(p.History) - 1; i >= 0; i-- {
		if p.History[i].ContentID == contentID && p.History[i].Feedback == "" {
			p.History[i].Feedback = feedback
			return
		}
	}
	p.appendHistory(HistoryItem{
		ContentID: contentID,
		Emotion:   emotion,
		Feedback:  feedback,
		Timestamp: ts,
	}, limit)
}

// clone deep-copies the profile for lock-free consumption by callers.
func (p *UserProfile) clone() *UserProfile {
	out := *p
	out.CategoryWeights = make(map[Category]float64, len(p.CategoryWeights))
	for k, v := range p.CategoryWeights {
		out.CategoryWeights[k] = v
	}
	out.EmotionCategorySuccess = make(map[string]map[Category]SuccessCounter, len(p.EmotionCategorySuccess))
	for emotion, byCat := range p.EmotionCategorySuccess {
		m := make(map[Category]SuccessCounter, len(byCat))
		for cat, counter := range byCat {
			m[cat] = counter
		}
		out.EmotionCategorySuccess[emotion] = m
	}
	out.ActivityPattern = make(map[int]int64, len(p.ActivityPattern))
	for h, n := range p.ActivityPattern {
		out.ActivityPattern[h] = n
	}
	out.History = append([]HistoryItem(nil), p.History...)
	return &out
}

// profileEntry pairs a profile with its lock. The RWMutex gives each
// profile single-writer/multi-reader semantics: scoring reads share the
// lock, learner mutations take it exclusively.
type profileEntry struct {
	mu      sync.RWMutex
	profile *UserProfile
}

// ProfileStore holds all user profiles, creating them lazily on first
// access. The outer lock only guards the map; per-profile access goes
// through the entry lock so users never contend with each other.
type ProfileStore struct {
	mu      sync.RWMutex
	entries map[string]*profileEntry
	now     func() time.Time
}

// NewProfileStore returns an empty store using the wall clock.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		entries: make(map[string]*profileEntry),
		now:     time.Now,
	}
}

func (s *ProfileStore) entry(userID string) *profileEntry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[userID]; ok {
		return e
	}
	e = &profileEntry{profile: newUserProfile(userID, s.now())}
	s.entries[userID] = e
	return e
}

// View runs fn under the profile's read lock. The profile must not be
// mutated or retained by fn.
func (s *ProfileStore) View(userID string, fn func(*UserProfile)) {
	e := s.entry(userID)
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.profile)
}

// Update runs fn under the profile's write lock and bumps UpdatedAt
// when fn succeeds.
func (s *ProfileStore) Update(userID string, fn func(*UserProfile) error) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.profile); err != nil {
		return err
	}
	e.profile.UpdatedAt = s.now()
	return nil
}

// Snapshot returns a deep copy of one profile, creating it if absent.
func (s *ProfileStore) Snapshot(userID string) *UserProfile {
	e := s.entry(userID)
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile.clone()
}

// Restore replaces one profile with an imported snapshot. The snapshot
// is validated and normalized: weights re-clamped, nil maps allocated.
func (s *ProfileStore) Restore(p *UserProfile) error {
	if p == nil || p.UserID == "" {
		return fmt.Errorf("profile snapshot missing user id: %w", ErrInvalidProfileConfig)
	}
	if p.DiversityPreference < 0 || p.DiversityPreference > 1 {
		return fmt.Errorf("profile %q diversity preference %v out of [0,1]: %w",
			p.UserID, p.DiversityPreference, ErrInvalidProfileConfig)
	}
	restored := p.clone()
	if restored.CategoryWeights == nil {
		restored.CategoryWeights = make(map[Category]float64)
	}
	for cat, w := range restored.CategoryWeights {
		restored.CategoryWeights[cat] = clampFloat(w, minCategoryWeight, maxCategoryWeight)
	}
	if restored.EmotionCategorySuccess == nil {
		restored.EmotionCategorySuccess = make(map[string]map[Category]SuccessCounter)
	}
	if restored.ActivityPattern == nil {
		restored.ActivityPattern = make(map[int]int64)
	}
	if restored.CreatedAt.IsZero() {
		restored.CreatedAt = s.now()
	}

	e := s.entry(p.UserID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile = restored
	return nil
}

// UserIDs returns the ids of all materialized profiles.
func (s *ProfileStore) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	return out
}

// Len returns the number of materialized profiles.
func (s *ProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
