// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8470" {
		t.Errorf("addr = %q, want 0.0.0.0:8470", cfg.Server.Addr())
	}
	if cfg.Service.UpdateThreshold != 3*time.Second {
		t.Errorf("update threshold = %v, want 3s", cfg.Service.UpdateThreshold)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"bad engine weight", func(c *Config) { c.Engine.Weights.Base = -1 }},
		{"snapshot without path", func(c *Config) { c.Snapshot.Path = "" }},
		{"zero flush interval", func(c *Config) { c.Snapshot.FlushInterval = 0 }},
		{"zero stream buffer", func(c *Config) { c.Stream.SendBuffer = 0 }},
		{"negative update threshold", func(c *Config) { c.Service.UpdateThreshold = -time.Second }},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8470 {
		t.Errorf("port = %d, want default 8470", cfg.Server.Port)
	}
	if cfg.Engine.HistoryLimit != 100 {
		t.Errorf("history limit = %d, want default 100", cfg.Engine.HistoryLimit)
	}
}

func TestLoadWithKoanfFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
engine:
  history_limit: 50
catalog:
  seed_demo: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100") // env beats file
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Engine.HistoryLimit != 50 {
		t.Errorf("history limit = %d, want file value 50", cfg.Engine.HistoryLimit)
	}
	if !cfg.Catalog.SeedDemo {
		t.Error("seed_demo from file not applied")
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 ||
		cfg.Security.CORSOrigins[0] != want[0] ||
		cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestEnvTransformDropsUnknownKeys(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("unmapped env var mapped to %q, want empty", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Errorf("HTTP_PORT mapped to %q, want server.port", got)
	}
	if got := envTransformFunc("ENGINE_WEIGHT_NOVELTY"); got != "engine.weights.novelty" {
		t.Errorf("ENGINE_WEIGHT_NOVELTY mapped to %q", got)
	}
}
