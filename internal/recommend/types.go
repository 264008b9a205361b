// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"math"
	"time"
)

// EmotionLabel identifies one of the nine recognized emotional states.
// The enumeration is closed: values outside it never map to a default
// strategy and are rejected with ErrUnknownEmotionLabel.
type EmotionLabel int

const (
	// EmotionHappy indicates a positive, activated state.
	EmotionHappy EmotionLabel = iota
	// EmotionSad indicates a negative, deactivated state.
	EmotionSad
	// EmotionAngry indicates a negative, highly activated state.
	EmotionAngry
	// EmotionTired indicates low energy and low activation.
	EmotionTired
	// EmotionRelaxed indicates a positive, calm state.
	EmotionRelaxed
	// EmotionSurprised indicates sudden high activation of either polarity.
	EmotionSurprised
	// EmotionDisgust indicates aversion.
	EmotionDisgust
	// EmotionPleased indicates mild contentment.
	EmotionPleased
	// EmotionNeutral indicates no dominant emotion.
	EmotionNeutral

	// NumEmotionLabels is the size of the closed enumeration.
	NumEmotionLabels = int(EmotionNeutral) + 1
)

// String returns the canonical name for the label.
func (l EmotionLabel) String() string {
	switch l {
	case EmotionHappy:
		return "happy"
	case EmotionSad:
		return "sad"
	case EmotionAngry:
		return "angry"
	case EmotionTired:
		return "tired"
	case EmotionRelaxed:
		return "relaxed"
	case EmotionSurprised:
		return "surprised"
	case EmotionDisgust:
		return "disgust"
	case EmotionPleased:
		return "pleased"
	case EmotionNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Valid reports whether the label is inside the closed enumeration.
func (l EmotionLabel) Valid() bool {
	return l >= EmotionHappy && l <= EmotionNeutral
}

// ParseEmotionLabel converts a string to an EmotionLabel.
// Returns ErrUnknownEmotionLabel for anything outside the nine-value set.
func ParseEmotionLabel(s string) (EmotionLabel, error) {
	for l := EmotionHappy; l <= EmotionNeutral; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return EmotionLabel(-1), ErrUnknownEmotionLabel
}

// Category is a content category tag (e.g. "comedy", "healing").
type Category string

// The category vocabulary used by the built-in strategy table.
// The catalog itself accepts any non-empty category tag.
const (
	CategoryComedy      Category = "comedy"
	CategoryHealing     Category = "healing"
	CategoryRelaxing    Category = "relaxing"
	CategoryEducational Category = "educational"
	CategoryMusic       Category = "music"
	CategorySports      Category = "sports"
	CategoryFood        Category = "food"
	CategoryTravel      Category = "travel"
	CategoryPets        Category = "pets"
	CategoryLifestyle   Category = "lifestyle"
	CategoryArt         Category = "art"
	CategoryNews        Category = "news"
	CategoryGaming      Category = "gaming"
	CategoryFashion     Category = "fashion"
	CategoryTechnology  Category = "technology"
)

// KnownCategories returns the full category vocabulary in stable order.
func KnownCategories() []Category {
	return []Category{
		CategoryComedy, CategoryHealing, CategoryRelaxing, CategoryEducational,
		CategoryMusic, CategorySports, CategoryFood, CategoryTravel,
		CategoryPets, CategoryLifestyle, CategoryArt, CategoryNews,
		CategoryGaming, CategoryFashion, CategoryTechnology,
	}
}

// VAPoint is a point in the two-dimensional valence/arousal affect space.
// Valence is pleasantness (-1 negative to +1 positive); arousal is
// activation (-1 calm to +1 excited).
type VAPoint struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
}

// maxVADistance is the diagonal of the [-1,1]x[-1,1] affect square,
// used to normalize distances into [0,1].
var maxVADistance = math.Sqrt(8)

// Clamp returns a copy with both coordinates forced into [-1, 1].
func (p VAPoint) Clamp() VAPoint {
	return VAPoint{
		Valence: clampFloat(p.Valence, -1, 1),
		Arousal: clampFloat(p.Arousal, -1, 1),
	}
}

// DistanceTo returns the Euclidean distance to another point.
func (p VAPoint) DistanceTo(o VAPoint) float64 {
	dv := p.Valence - o.Valence
	da := p.Arousal - o.Arousal
	return math.Sqrt(dv*dv + da*da)
}

// Similarity returns 1 - normalized distance, in [0, 1].
// Identical points score 1; opposite corners of the affect square score 0.
func (p VAPoint) Similarity(o VAPoint) float64 {
	return 1 - p.DistanceTo(o)/maxVADistance
}

// EmotionalState is one externally classified emotion reading.
// It is an immutable value; out-of-range intensity and affect coordinates
// are clamped rather than rejected so the pipeline never stalls on a
// noisy reading.
type EmotionalState struct {
	// Label is the classified emotion.
	Label EmotionLabel `json:"label"`

	// Intensity is the signal strength in [0, 100].
	Intensity float64 `json:"intensity"`

	// VA is the continuous valence/arousal estimate.
	VA VAPoint `json:"va"`

	// Timestamp is when the reading was produced.
	Timestamp time.Time `json:"timestamp"`
}

// Clamp returns a copy with intensity forced into [0, 100] and the
// affect coordinates forced into [-1, 1].
func (s EmotionalState) Clamp() EmotionalState {
	s.Intensity = clampFloat(s.Intensity, 0, 100)
	s.VA = s.VA.Clamp()
	return s
}

// ContentRecord is one short-form video in the catalog.
// Everything except ViewCount is immutable after indexing.
type ContentRecord struct {
	// ID is the unique, stable content identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Categories is the set of category tags. Never empty: a record
	// without tags cannot be indexed.
	Categories []Category `json:"categories"`

	// Duration is the video length.
	Duration time.Duration `json:"duration"`

	// Popularity is a pre-computed popularity metric in [0, 1].
	Popularity float64 `json:"popularity"`

	// Quality is a pre-computed quality metric in [0, 1].
	Quality float64 `json:"quality"`

	// EmotionalFit locates the content in valence/arousal space.
	EmotionalFit VAPoint `json:"emotional_fit"`

	// UploadTime is when the content was published.
	UploadTime time.Time `json:"upload_time"`

	// ViewCount is the exposure counter, incremented each time the
	// record is admitted into a recommendation batch. Only meaningful
	// on snapshots returned by the catalog.
	ViewCount int64 `json:"view_count"`
}

// HasCategory reports whether the record carries the given tag.
func (r *ContentRecord) HasCategory(cat Category) bool {
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// FeedbackType classifies an explicit end-user reaction to a
// recommended item.
type FeedbackType int

const (
	// FeedbackLike is a strong positive signal.
	FeedbackLike FeedbackType = iota
	// FeedbackSkip is a mild negative signal.
	FeedbackSkip
	// FeedbackShare is a positive signal slightly weaker than a like.
	FeedbackShare
)

// String returns a human-readable name for the feedback type.
func (t FeedbackType) String() string {
	switch t {
	case FeedbackLike:
		return "like"
	case FeedbackSkip:
		return "skip"
	case FeedbackShare:
		return "share"
	default:
		return "unknown"
	}
}

// Polarity returns the learning polarity applied to category weights.
func (t FeedbackType) Polarity() float64 {
	switch t {
	case FeedbackLike:
		return 1.0
	case FeedbackShare:
		return 0.7
	case FeedbackSkip:
		return -0.5
	default:
		return 0.0
	}
}

// ParseFeedbackType converts a string to a FeedbackType.
func ParseFeedbackType(s string) (FeedbackType, error) {
	switch s {
	case "like":
		return FeedbackLike, nil
	case "skip":
		return FeedbackSkip, nil
	case "share":
		return FeedbackShare, nil
	default:
		return FeedbackType(-1), ErrUnknownFeedbackType
	}
}

// ScoreFactor is one named contribution to a recommendation score.
type ScoreFactor struct {
	// Name identifies the scoring term.
	Name string `json:"name"`

	// Contribution is the term's additive value in the total score.
	Contribution float64 `json:"contribution"`
}

// Canonical factor names, in the order they appear in explanations.
const (
	FactorBase       = "base"
	FactorStrategy   = "strategy"
	FactorVAMatch    = "va_match"
	FactorPreference = "preference"
	FactorNovelty    = "novelty"
	FactorRecency    = "recency"
)

// Recommendation is one ranked item with its score breakdown.
type Recommendation struct {
	// ContentID identifies the recommended record.
	ContentID string `json:"content_id"`

	// Title is the record title, echoed for display convenience.
	Title string `json:"title"`

	// Categories echoes the record's category tags.
	Categories []Category `json:"categories"`

	// Score is the un-normalized total ranking score. Only the ordering
	// it induces is meaningful, not the absolute magnitude.
	Score float64 `json:"score"`

	// Explanation lists the six factor contributions in canonical order.
	Explanation []ScoreFactor `json:"explanation"`

	// Reason is a short human-readable justification derived from the
	// dominant factors.
	Reason string `json:"reason,omitempty"`
}

// Request carries one recommendation call.
type Request struct {
	// UserID selects the profile to score against.
	UserID string `json:"user_id"`

	// State is the emotion reading driving the request.
	State EmotionalState `json:"state"`

	// Count is the number of items requested. Zero or negative means
	// unset and yields the engine's configured default batch size;
	// values above the configured maximum are capped.
	Count int `json:"count"`

	// MinIntensity overrides the strategy table's per-label
	// low-intensity threshold when > 0.
	MinIntensity float64 `json:"min_intensity,omitempty"`

	// RequestID is an optional identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Result is an ordered recommendation batch.
// A result shorter than the requested count is a successful outcome,
// never an error: it means the catalog lacked eligible candidates.
type Result struct {
	// Items is the ranked recommendation list.
	Items []Recommendation `json:"items"`

	// TotalCandidates is the number of non-excluded candidates scored.
	TotalCandidates int `json:"total_candidates"`

	// Metadata carries timing and diagnostic information.
	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata carries timing and diagnostic information for a batch.
type ResultMetadata struct {
	// RequestID is the tracing identifier for the call.
	RequestID string `json:"request_id"`

	// UserID is the profile the batch was scored against.
	UserID string `json:"user_id"`

	// Emotion is the label the strategy was selected for.
	Emotion string `json:"emotion"`

	// IntensityTier is the tier modifier that was applied.
	IntensityTier string `json:"intensity_tier"`

	// LatencyMS is the total scoring latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the batch was produced.
	Timestamp time.Time `json:"timestamp"`
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
