// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Package recommend implements the emotion-adaptive recommendation core.
//
// The package contains four cooperating parts:
//
//   - StrategyTable: a static knowledge base mapping each of the nine
//     emotion labels to preferred/avoided content categories, intensity-tier
//     modifiers, and a target point in valence/arousal space.
//   - Catalog: the in-memory content index with category lookups and
//     per-record view counters.
//   - Engine: the multi-factor scoring and diversity-constrained ranking
//     algorithm. Each recommendation carries an ordered per-factor
//     explanation of its score.
//   - Learner: the online profile learner that folds like/skip/share
//     feedback and observed emotion readings into per-user profiles.
//
// The package has no dependencies on other internal packages so it can be
// embedded behind any transport. All operations are pure in-memory
// computation; the only mutable shared state is the per-record view counter
// and the per-user profile, both of which are safe for concurrent use.
package recommend
