// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

// Package config loads and validates the application configuration
// with Koanf v2 from layered sources: struct defaults, an optional
// YAML file, then environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/moodcast/moodcast/internal/recommend"
)

// Config is the full application configuration.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `koanf:"server"`

	// Logging configures the global logger.
	Logging LoggingConfig `koanf:"logging"`

	// Engine configures scoring weights, limits, and diversity.
	Engine recommend.Config `koanf:"engine"`

	// Catalog configures the content index.
	Catalog CatalogConfig `koanf:"catalog"`

	// Snapshot configures profile persistence.
	Snapshot SnapshotConfig `koanf:"snapshot"`

	// Stream configures the websocket emotion stream.
	Stream StreamConfig `koanf:"stream"`

	// Service configures the recommendation update pipeline.
	Service ServiceConfig `koanf:"service"`

	// Security configures CORS and rate limiting.
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 8470
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout. Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port bind address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level. Default: info
	Level string `koanf:"level"`

	// Format is json or console. Default: json
	Format string `koanf:"format"`

	// Caller includes caller file:line in log events. Default: false
	Caller bool `koanf:"caller"`
}

// CatalogConfig configures the content index.
type CatalogConfig struct {
	// SeedDemo indexes the built-in sample records at startup.
	// Default: false
	SeedDemo bool `koanf:"seed_demo"`
}

// SnapshotConfig configures the badger-backed profile snapshot store.
type SnapshotConfig struct {
	// Enabled turns persistence on. Default: true
	Enabled bool `koanf:"enabled"`

	// Path is the badger data directory. Default: /data/moodcast/profiles
	Path string `koanf:"path"`

	// FlushInterval is how often dirty profiles are flushed.
	// Default: 1m
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// StreamConfig configures the websocket emotion stream.
type StreamConfig struct {
	// Enabled turns the stream endpoint on. Default: true
	Enabled bool `koanf:"enabled"`

	// ReadLimit caps inbound message size in bytes. Default: 16384
	ReadLimit int64 `koanf:"read_limit"`

	// WriteTimeout bounds a single outbound write. Default: 10s
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// PingInterval is the keepalive ping period. Default: 30s
	PingInterval time.Duration `koanf:"ping_interval"`

	// SendBuffer is the per-client outbound queue length. Default: 64
	SendBuffer int `koanf:"send_buffer"`
}

// ServiceConfig configures the recommendation update pipeline.
type ServiceConfig struct {
	// UpdateThreshold is the per-user minimum interval between fresh
	// batches; an emotion label change bypasses it. Default: 3s
	UpdateThreshold time.Duration `koanf:"update_threshold"`
}

// SecurityConfig configures CORS and rate limiting.
type SecurityConfig struct {
	// CORSOrigins lists allowed origins. Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the per-IP request budget per window.
	// Default: 300
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window. Default: 1m
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns rate limiting off. Default: false
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Snapshot.Enabled {
		if c.Snapshot.Path == "" {
			return fmt.Errorf("snapshot.path is required when snapshots are enabled")
		}
		if c.Snapshot.FlushInterval <= 0 {
			return fmt.Errorf("snapshot.flush_interval must be positive, got %v", c.Snapshot.FlushInterval)
		}
	}
	if c.Stream.Enabled {
		if c.Stream.ReadLimit <= 0 {
			return fmt.Errorf("stream.read_limit must be positive, got %d", c.Stream.ReadLimit)
		}
		if c.Stream.SendBuffer < 1 {
			return fmt.Errorf("stream.send_buffer must be >= 1, got %d", c.Stream.SendBuffer)
		}
		if c.Stream.WriteTimeout <= 0 || c.Stream.PingInterval <= 0 {
			return fmt.Errorf("stream timeouts must be positive")
		}
	}
	if c.Service.UpdateThreshold < 0 {
		return fmt.Errorf("service.update_threshold must be non-negative, got %v", c.Service.UpdateThreshold)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be >= 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}
