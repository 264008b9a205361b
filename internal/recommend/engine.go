// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Duration buckets for the high-activation short-content bias.
const (
	shortDuration  = 300 * time.Second
	mediumDuration = 900 * time.Second
)

// Engine scores and ranks catalog content against an emotion reading
// and a user profile. An Engine is safe for concurrent use; every call
// reads a consistent catalog snapshot and a consistent profile copy.
type Engine struct {
	cfg      Config
	table    *StrategyTable
	catalog  *Catalog
	profiles *ProfileStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEngine validates the configuration and wires the engine to its
// collaborators.
func NewEngine(cfg Config, table *StrategyTable, catalog *Catalog, profiles *ProfileStore, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{
		cfg:      cfg,
		table:    table,
		catalog:  catalog,
		profiles: profiles,
		logger:   logger.With().Str("component", "engine").Logger(),
		now:      time.Now,
	}, nil
}

// scoredCandidate is one candidate with its computed score breakdown.
type scoredCandidate struct {
	record  ContentRecord
	total   float64
	factors []ScoreFactor
}

// Recommend produces a ranked batch for one emotion reading. Fewer
// items than requested is a success; only a fully empty catalog fails,
// with ErrEmptyCatalog. Selected items have their view counters bumped
// and are appended to the user's history.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := e.now()

	req.State = req.State.Clamp()
	count := e.clampCount(req.Count)

	entry, err := e.table.Lookup(req.State.Label)
	if err != nil {
		return nil, err
	}
	tier := entry.TierFor(req.State.Intensity, req.MinIntensity)
	modifier := entry.Tiers[tier]

	candidates := e.catalog.AllCandidates()
	if len(candidates) == 0 {
		return nil, ErrEmptyCatalog
	}

	profile := e.profiles.Snapshot(req.UserID)
	scored := e.scoreCandidates(candidates, req.State, entry, modifier, profile)
	sortCandidates(scored)

	selected := e.selectDiverse(scored, count, profile.DiversityPreference)
	items := e.deliver(selected, req, started)

	e.logger.Debug().
		Str("user_id", req.UserID).
		Str("emotion", req.State.Label.String()).
		Str("tier", tier.String()).
		Int("candidates", len(scored)).
		Int("selected", len(items)).
		Msg("recommendation batch produced")

	return &Result{
		Items:           items,
		TotalCandidates: len(scored),
		Metadata: ResultMetadata{
			RequestID:     req.RequestID,
			UserID:        req.UserID,
			Emotion:       req.State.Label.String(),
			IntensityTier: tier.String(),
			LatencyMS:     e.now().Sub(started).Milliseconds(),
			Timestamp:     started,
		},
	}, nil
}

// clampCount bounds the requested batch size. A non-positive count
// means the caller declined to choose and falls back to the configured
// default; anything above MaxCount is capped.
func (e *Engine) clampCount(count int) int {
	if count < 1 {
		return e.cfg.Limits.DefaultCount
	}
	if count > e.cfg.Limits.MaxCount {
		return e.cfg.Limits.MaxCount
	}
	return count
}

// scoreCandidates filters out avoided content and computes the
// six-factor score for everything that remains.
func (e *Engine) scoreCandidates(candidates []ContentRecord, state EmotionalState, entry *StrategyEntry, modifier TierModifier, profile *UserProfile) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for i := range candidates {
		rec := candidates[i]
		if entry.Avoids(rec.Categories) {
			continue
		}
		sc := e.score(rec, state, entry, modifier, profile)
		scored = append(scored, sc)
	}
	return scored
}

// score computes the un-normalized six-term total for one record. The
// factor slice is always in canonical order so explanations are stable.
func (e *Engine) score(rec ContentRecord, state EmotionalState, entry *StrategyEntry, modifier TierModifier, profile *UserProfile) scoredCandidate {
	w := e.cfg.Weights

	base := w.Base * (rec.Popularity + rec.Quality) / 2

	strategy := w.Strategy * entry.MaxAffinity(rec.Categories) * modifier.StrategyFactor
	if modifier.ShortBias {
		strategy *= durationFactor(rec.Duration)
	}

	vaMatch := w.VAMatch * entry.TargetVA.Similarity(rec.EmotionalFit)

	preference := w.Preference * e.preferenceValue(rec, state.Label, profile)

	novelty := w.Novelty * modifier.NoveltyBoost / (1 + float64(rec.ViewCount))

	recency := 0.0
	if !rec.UploadTime.IsZero() {
		age := e.now().Sub(rec.UploadTime)
		if age < 0 {
			age = 0
		}
		recency = w.Recency * math.Exp(-float64(age)/float64(e.cfg.RecencyDecay))
	}

	factors := []ScoreFactor{
		{Name: FactorBase, Contribution: base},
		{Name: FactorStrategy, Contribution: strategy},
		{Name: FactorVAMatch, Contribution: vaMatch},
		{Name: FactorPreference, Contribution: preference},
		{Name: FactorNovelty, Contribution: novelty},
		{Name: FactorRecency, Contribution: recency},
	}
	total := 0.0
	for _, f := range factors {
		total += f.Contribution
	}
	return scoredCandidate{record: rec, total: total, factors: factors}
}

// preferenceValue is the learned weight * success ratio of the
// record's best-matching category. Multi-category records carry their
// strongest signal undiluted; extra unlearned categories neither help
// nor hurt. The ratio stays 0 until the emotion/category pair has
// recorded attempts, so unproven pairs contribute nothing.
func (e *Engine) preferenceValue(rec ContentRecord, label EmotionLabel, profile *UserProfile) float64 {
	emotion := label.String()
	best := math.Inf(-1)
	for _, cat := range rec.Categories {
		v := profile.Weight(cat) * profile.successCounter(emotion, cat).Ratio()
		if v > best {
			best = v
		}
	}
	return best
}

// durationFactor biases toward short content when the user is highly
// activated: full weight below 5 minutes, reduced up to 15, damped
// beyond.
func durationFactor(d time.Duration) float64 {
	switch {
	case d <= shortDuration:
		return 1.0
	case d <= mediumDuration:
		return 0.85
	default:
		return 0.7
	}
}

// sortCandidates orders by score descending with content id ascending
// as the tie-break, making the ranking deterministic for equal scores.
func sortCandidates(scored []scoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].total != scored[j].total {
			return scored[i].total > scored[j].total
		}
		return scored[i].record.ID < scored[j].record.ID
	})
}

// selectDiverse walks the ranked candidates admitting each record only
// while every category it carries stays under the cap. The cap is
// ceil(count * max(baseCapFraction, diversityPreference)); when a full
// pass cannot fill the batch the cap relaxes by one for another pass,
// at most MaxRelaxRounds times. Rank order is preserved within and
// across passes.
func (e *Engine) selectDiverse(scored []scoredCandidate, count int, diversityPref float64) []scoredCandidate {
	if len(scored) == 0 {
		return nil
	}
	fraction := math.Max(e.cfg.Diversity.BaseCapFraction, diversityPref)
	categoryCap := int(math.Ceil(float64(count) * fraction))
	if categoryCap < 1 {
		categoryCap = 1
	}

	selected := make([]scoredCandidate, 0, count)
	taken := make([]bool, len(scored))
	perCategory := make(map[Category]int)

	for round := 0; round <= e.cfg.Diversity.MaxRelaxRounds; round++ {
		for i := range scored {
			if len(selected) == count {
				return selected
			}
			if taken[i] {
				continue
			}
			if categoryCapExceeded(scored[i].record.Categories, perCategory, categoryCap+round) {
				continue
			}
			taken[i] = true
			for _, cat := range scored[i].record.Categories {
				perCategory[cat]++
			}
			selected = append(selected, scored[i])
		}
		if len(selected) == count {
			break
		}
	}
	return selected
}

func categoryCapExceeded(cats []Category, perCategory map[Category]int, limit int) bool {
	for _, c := range cats {
		if perCategory[c]+1 > limit {
			return true
		}
	}
	return false
}

// deliver materializes the selected candidates into recommendations,
// bumps their view counters, and appends them to the user's history.
func (e *Engine) deliver(selected []scoredCandidate, req Request, ts time.Time) []Recommendation {
	items := make([]Recommendation, 0, len(selected))
	for _, sc := range selected {
		// Snapshot slices are caller-owned, no copy needed.
		items = append(items, Recommendation{
			ContentID:   sc.record.ID,
			Title:       sc.record.Title,
			Categories:  sc.record.Categories,
			Score:       sc.total,
			Explanation: sc.factors,
			Reason:      reasonFor(sc.factors, req.State.Label),
		})
		if err := e.catalog.RecordView(sc.record.ID); err != nil {
			e.logger.Warn().Err(err).Str("content_id", sc.record.ID).Msg("view count bump failed")
		}
	}
	if len(items) == 0 {
		return items
	}

	emotion := req.State.Label.String()
	limit := e.cfg.HistoryLimit
	err := e.profiles.Update(req.UserID, func(p *UserProfile) error {
		for _, item := range items {
			p.appendHistory(HistoryItem{ContentID: item.ContentID, Emotion: emotion, Timestamp: ts}, limit)
		}
		return nil
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("history append failed")
	}
	return items
}

// reasonFor derives a short justification from the dominant factor.
func reasonFor(factors []ScoreFactor, label EmotionLabel) string {
	best := factors[0]
	for _, f := range factors[1:] {
		if f.Contribution > best.Contribution {
			best = f
		}
	}
	switch best.Name {
	case FactorStrategy:
		return fmt.Sprintf("suits your %s mood", label)
	case FactorVAMatch:
		return "matches how you feel right now"
	case FactorPreference:
		return "based on what has worked for you before"
	case FactorNovelty:
		return "something you have not seen much of"
	case FactorRecency:
		return "freshly uploaded"
	default:
		return "popular and well rated"
	}
}
