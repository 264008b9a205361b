// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"math"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	// The six coefficients intentionally sum to 1.7; they weight terms
	// relative to each other and are never normalized.
	sum := cfg.Weights.Base + cfg.Weights.Strategy + cfg.Weights.VAMatch +
		cfg.Weights.Preference + cfg.Weights.Novelty + cfg.Weights.Recency
	if math.Abs(sum-1.7) > 1e-9 {
		t.Errorf("weight sum = %v, want 1.7", sum)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.Novelty = -0.1 }},
		{"zero default count", func(c *Config) { c.Limits.DefaultCount = 0 }},
		{"max below default", func(c *Config) { c.Limits.MaxCount = 5; c.Limits.DefaultCount = 10 }},
		{"zero cap fraction", func(c *Config) { c.Diversity.BaseCapFraction = 0 }},
		{"cap fraction above one", func(c *Config) { c.Diversity.BaseCapFraction = 1.1 }},
		{"negative relax rounds", func(c *Config) { c.Diversity.MaxRelaxRounds = -1 }},
		{"zero decay", func(c *Config) { c.RecencyDecay = 0 }},
		{"zero history limit", func(c *Config) { c.HistoryLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RecencyDecay != 30*24*time.Hour {
		t.Errorf("recency decay = %v, want 30 days", cfg.RecencyDecay)
	}
	if cfg.HistoryLimit != 100 {
		t.Errorf("history limit = %d, want 100", cfg.HistoryLimit)
	}
	if cfg.Diversity.BaseCapFraction != 0.5 {
		t.Errorf("base cap fraction = %v, want 0.5", cfg.Diversity.BaseCapFraction)
	}
}

func TestSeedSampleCatalog(t *testing.T) {
	c := NewCatalog()
	if err := SeedSampleCatalog(c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("seed produced an empty catalog")
	}
	// Every category in the vocabulary must be represented so each
	// strategy has something to recommend.
	for _, cat := range KnownCategories() {
		if len(c.ByCategory(cat)) == 0 {
			t.Errorf("no sample content for category %s", cat)
		}
	}
}
