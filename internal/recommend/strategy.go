// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import "fmt"

// IntensityTier buckets an emotion reading's intensity.
type IntensityTier int

const (
	// TierLow applies below the per-label minimum threshold.
	TierLow IntensityTier = iota
	// TierMid applies between the threshold and the high boundary.
	TierMid
	// TierHigh applies above the high boundary.
	TierHigh
)

// highIntensityBoundary separates the mid and high tiers.
const highIntensityBoundary = 70.0

// String returns the tier name used in result metadata.
func (t IntensityTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// TierModifier holds the per-tier scoring adjustments.
type TierModifier struct {
	// StrategyFactor scales the strategy-affinity term.
	StrategyFactor float64

	// ShortBias enables the short-duration preference applied to the
	// strategy term when the user is highly activated.
	ShortBias bool

	// NoveltyBoost scales the novelty term; >1 widens exploration when
	// the emotion signal is weak.
	NoveltyBoost float64
}

// StrategyEntry is the knowledge-base row for one emotion label.
type StrategyEntry struct {
	// Label is the emotion this entry applies to.
	Label EmotionLabel

	// Affinities maps preferred categories to affinity weights in (0, 1].
	// Categories absent from the map contribute zero strategy affinity.
	Affinities map[Category]float64

	// Avoided is the hard exclusion set. Content carrying any avoided
	// category is never recommended for this label, regardless of score.
	Avoided map[Category]struct{}

	// Tiers holds the low/mid/high intensity modifiers.
	Tiers map[IntensityTier]TierModifier

	// TargetVA is the valence/arousal point recommendations should move
	// the user toward.
	TargetVA VAPoint

	// MinIntensity is the per-label threshold below which the low tier
	// applies. Default: 40.
	MinIntensity float64
}

// Avoids reports whether any of the given categories is in the entry's
// hard exclusion set.
func (e *StrategyEntry) Avoids(cats []Category) bool {
	for _, c := range cats {
		if _, bad := e.Avoided[c]; bad {
			return true
		}
	}
	return false
}

// MaxAffinity returns the highest affinity weight among the given
// categories, or 0 when none is preferred.
func (e *StrategyEntry) MaxAffinity(cats []Category) float64 {
	best := 0.0
	for _, c := range cats {
		if w := e.Affinities[c]; w > best {
			best = w
		}
	}
	return best
}

// TierFor buckets an intensity reading. A minThreshold <= 0 falls back
// to the entry's own MinIntensity.
func (e *StrategyEntry) TierFor(intensity, minThreshold float64) IntensityTier {
	if minThreshold <= 0 {
		minThreshold = e.MinIntensity
	}
	switch {
	case intensity < minThreshold:
		return TierLow
	case intensity > highIntensityBoundary:
		return TierHigh
	default:
		return TierMid
	}
}

// StrategyTable maps every emotion label to its StrategyEntry.
// The table is immutable after construction and safe for concurrent
// reads.
type StrategyTable struct {
	entries [NumEmotionLabels]StrategyEntry
}

// Lookup returns the entry for a label, or ErrUnknownEmotionLabel when
// the label is outside the closed enumeration.
func (t *StrategyTable) Lookup(label EmotionLabel) (*StrategyEntry, error) {
	if !label.Valid() {
		return nil, fmt.Errorf("strategy lookup for label %d: %w", int(label), ErrUnknownEmotionLabel)
	}
	return &t.entries[label], nil
}

// Entries returns all nine entries in label order.
func (t *StrategyTable) Entries() []StrategyEntry {
	return t.entries[:]
}

// defaultTiers returns the standard intensity-tier modifiers: a strong
// signal amplifies the strategy term and biases toward short content, a
// weak signal damps it and widens exploration.
func defaultTiers() map[IntensityTier]TierModifier {
	return map[IntensityTier]TierModifier{
		TierHigh: {StrategyFactor: 1.2, ShortBias: true, NoveltyBoost: 1.0},
		TierMid:  {StrategyFactor: 1.0, ShortBias: false, NoveltyBoost: 1.0},
		TierLow:  {StrategyFactor: 0.8, ShortBias: false, NoveltyBoost: 1.25},
	}
}

// defaultMinIntensity is the per-label low-tier threshold applied when
// a request does not override it.
const defaultMinIntensity = 40.0

// NewStrategyTable builds the built-in emotion→content knowledge base.
// Construction panics only through newStrategyTable's completeness
// check, which is exercised at init by every consumer.
func NewStrategyTable() (*StrategyTable, error) {
	t := &StrategyTable{}
	rows := []StrategyEntry{
		{
			Label: EmotionHappy,
			Affinities: map[Category]float64{
				CategoryComedy: 0.7, CategoryMusic: 0.7, CategoryPets: 0.7,
				CategoryLifestyle: 0.7, CategoryGaming: 0.7,
				CategorySports: 0.3, CategoryTravel: 0.3, CategoryArt: 0.3,
			},
			TargetVA: VAPoint{Valence: 0.6, Arousal: 0.4},
		},
		{
			Label: EmotionSad,
			Affinities: map[Category]float64{
				CategoryHealing: 0.8, CategoryRelaxing: 0.8, CategoryPets: 0.8,
				CategoryMusic: 0.8,
				CategoryComedy: 0.4, CategoryFood: 0.4,
			},
			Avoided:  categorySet(CategoryNews),
			TargetVA: VAPoint{Valence: 0.3, Arousal: -0.2},
		},
		{
			Label: EmotionAngry,
			Affinities: map[Category]float64{
				CategoryRelaxing: 0.8, CategoryHealing: 0.8, CategoryMusic: 0.8,
				CategoryPets: 0.5, CategoryFood: 0.5,
			},
			Avoided:  categorySet(CategoryNews, CategoryGaming),
			TargetVA: VAPoint{Valence: 0.2, Arousal: -0.5},
		},
		{
			Label: EmotionTired,
			Affinities: map[Category]float64{
				CategoryRelaxing: 0.8, CategoryMusic: 0.8, CategoryHealing: 0.8,
				CategoryFood: 0.4, CategoryPets: 0.4,
			},
			Avoided:  categorySet(CategoryEducational, CategoryNews),
			TargetVA: VAPoint{Valence: 0.2, Arousal: -0.4},
		},
		{
			Label: EmotionRelaxed,
			Affinities: map[Category]float64{
				CategoryLifestyle: 0.6, CategoryTravel: 0.6, CategoryArt: 0.6,
				CategoryFood: 0.6,
				CategoryEducational: 0.5, CategoryTechnology: 0.5,
			},
			TargetVA: VAPoint{Valence: 0.4, Arousal: -0.3},
		},
		{
			Label: EmotionSurprised,
			Affinities: map[Category]float64{
				CategoryComedy: 0.6, CategoryGaming: 0.6, CategorySports: 0.6,
				CategoryNews: 0.5, CategoryTechnology: 0.5,
			},
			TargetVA: VAPoint{Valence: 0.4, Arousal: 0.5},
		},
		{
			Label: EmotionDisgust,
			Affinities: map[Category]float64{
				CategoryHealing: 0.7, CategoryPets: 0.7, CategoryRelaxing: 0.7,
				CategoryComedy: 0.5,
			},
			Avoided:  categorySet(CategoryNews),
			TargetVA: VAPoint{Valence: 0.4, Arousal: 0.0},
		},
		{
			Label: EmotionPleased,
			Affinities: map[Category]float64{
				CategoryLifestyle: 0.6, CategoryMusic: 0.6, CategoryArt: 0.6,
				CategoryFashion: 0.6,
				CategoryComedy: 0.5, CategoryTravel: 0.5,
			},
			TargetVA: VAPoint{Valence: 0.5, Arousal: 0.0},
		},
		{
			Label: EmotionNeutral,
			Affinities: map[Category]float64{
				CategoryEducational: 0.5, CategoryTechnology: 0.5, CategoryNews: 0.5,
				CategoryLifestyle: 0.4, CategoryTravel: 0.4, CategoryMusic: 0.4,
			},
			TargetVA: VAPoint{Valence: 0.2, Arousal: 0.1},
		},
	}

	seen := make(map[EmotionLabel]bool, NumEmotionLabels)
	for _, row := range rows {
		if !row.Label.Valid() {
			return nil, fmt.Errorf("strategy table row for label %d: %w", int(row.Label), ErrUnknownEmotionLabel)
		}
		if seen[row.Label] {
			return nil, fmt.Errorf("duplicate strategy table row for %s", row.Label)
		}
		seen[row.Label] = true
		if row.Avoided == nil {
			row.Avoided = map[Category]struct{}{}
		}
		row.Tiers = defaultTiers()
		row.MinIntensity = defaultMinIntensity
		t.entries[row.Label] = row
	}
	if len(seen) != NumEmotionLabels {
		return nil, fmt.Errorf("strategy table incomplete: %d of %d labels", len(seen), NumEmotionLabels)
	}
	return t, nil
}

// MustStrategyTable builds the built-in table and panics on the
// impossible case of an incomplete row set. Used at startup and in
// tests.
func MustStrategyTable() *StrategyTable {
	t, err := NewStrategyTable()
	if err != nil {
		panic(err)
	}
	return t
}

func categorySet(cats ...Category) map[Category]struct{} {
	s := make(map[Category]struct{}, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}
