// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"fmt"
	"time"
)

// Weights holds the six scoring-term coefficients. The coefficients are
// intentionally un-normalized (they sum to 1.7 at defaults); only the
// ordering induced by the total matters.
type Weights struct {
	// Base scales the popularity/quality term. Default: 0.3.
	Base float64 `koanf:"base" json:"base"`

	// Strategy scales the emotion-strategy affinity term. Default: 0.4.
	Strategy float64 `koanf:"strategy" json:"strategy"`

	// VAMatch scales the valence/arousal proximity term. Default: 0.4.
	VAMatch float64 `koanf:"va_match" json:"va_match"`

	// Preference scales the learned user-preference term. Default: 0.3.
	Preference float64 `koanf:"preference" json:"preference"`

	// Novelty scales the exposure-decay term. Default: 0.2.
	Novelty float64 `koanf:"novelty" json:"novelty"`

	// Recency scales the upload-age term. Default: 0.1.
	Recency float64 `koanf:"recency" json:"recency"`
}

// Limits bounds request parameters.
type Limits struct {
	// DefaultCount is the batch size used when a request omits one.
	// Default: 10.
	DefaultCount int `koanf:"default_count" json:"default_count"`

	// MaxCount caps the batch size of a single request. Default: 50.
	MaxCount int `koanf:"max_count" json:"max_count"`
}

// Diversity controls the category-cap selection pass.
type Diversity struct {
	// BaseCapFraction is the floor fraction of the batch any single
	// category may occupy. Default: 0.5.
	BaseCapFraction float64 `koanf:"base_cap_fraction" json:"base_cap_fraction"`

	// MaxRelaxRounds bounds the number of cap +1 relaxation rounds when
	// the batch cannot otherwise be filled. Default: 15 (the category
	// vocabulary size).
	MaxRelaxRounds int `koanf:"max_relax_rounds" json:"max_relax_rounds"`
}

// Config is the engine configuration.
type Config struct {
	// Weights are the six scoring-term coefficients.
	Weights Weights `koanf:"weights" json:"weights"`

	// Limits bounds request parameters.
	Limits Limits `koanf:"limits" json:"limits"`

	// Diversity controls the category-cap selection pass.
	Diversity Diversity `koanf:"diversity" json:"diversity"`

	// RecencyDecay is the exponential-decay time constant for the
	// recency term. Default: 720h (30 days).
	RecencyDecay time.Duration `koanf:"recency_decay" json:"recency_decay"`

	// HistoryLimit caps the per-profile recommendation history.
	// Default: 100.
	HistoryLimit int `koanf:"history_limit" json:"history_limit"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Base:       0.3,
			Strategy:   0.4,
			VAMatch:    0.4,
			Preference: 0.3,
			Novelty:    0.2,
			Recency:    0.1,
		},
		Limits: Limits{
			DefaultCount: 10,
			MaxCount:     50,
		},
		Diversity: Diversity{
			BaseCapFraction: 0.5,
			MaxRelaxRounds:  len(KnownCategories()),
		},
		RecencyDecay: 30 * 24 * time.Hour,
		HistoryLimit: 100,
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"base", c.Weights.Base},
		{"strategy", c.Weights.Strategy},
		{"va_match", c.Weights.VAMatch},
		{"preference", c.Weights.Preference},
		{"novelty", c.Weights.Novelty},
		{"recency", c.Weights.Recency},
	} {
		if w.value < 0 {
			return fmt.Errorf("engine weight %q must be non-negative, got %v", w.name, w.value)
		}
	}
	if c.Limits.DefaultCount < 1 {
		return fmt.Errorf("limits.default_count must be >= 1, got %d", c.Limits.DefaultCount)
	}
	if c.Limits.MaxCount < c.Limits.DefaultCount {
		return fmt.Errorf("limits.max_count must be >= limits.default_count, got %d < %d",
			c.Limits.MaxCount, c.Limits.DefaultCount)
	}
	if c.Diversity.BaseCapFraction <= 0 || c.Diversity.BaseCapFraction > 1 {
		return fmt.Errorf("diversity.base_cap_fraction must be in (0, 1], got %v", c.Diversity.BaseCapFraction)
	}
	if c.Diversity.MaxRelaxRounds < 0 {
		return fmt.Errorf("diversity.max_relax_rounds must be >= 0, got %d", c.Diversity.MaxRelaxRounds)
	}
	if c.RecencyDecay <= 0 {
		return fmt.Errorf("recency_decay must be positive, got %v", c.RecencyDecay)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be >= 1, got %d", c.HistoryLimit)
	}
	return nil
}
