// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import "errors"

// Sentinel errors returned by the recommendation core. Callers match
// them with errors.Is; transports map them to stable error codes.
var (
	// ErrUnknownEmotionLabel is returned when a strategy lookup names a
	// label outside the closed nine-value enumeration.
	ErrUnknownEmotionLabel = errors.New("unknown emotion label")

	// ErrUnknownFeedbackType is returned when feedback parsing names a
	// type outside like/skip/share.
	ErrUnknownFeedbackType = errors.New("unknown feedback type")

	// ErrEmptyCatalog is returned when a recommendation request finds
	// zero indexed candidates. A non-empty catalog producing fewer items
	// than requested is a success, not this error.
	ErrEmptyCatalog = errors.New("content catalog is empty")

	// ErrUnknownContent is returned when feedback references a content
	// id that was never indexed.
	ErrUnknownContent = errors.New("unknown content id")

	// ErrInvalidProfileConfig is returned when a profile setting update
	// carries an out-of-range value.
	ErrInvalidProfileConfig = errors.New("invalid profile configuration")

	// ErrInvalidContent is returned when a record cannot be indexed,
	// e.g. an empty id or an empty category set.
	ErrInvalidContent = errors.New("invalid content record")
)
