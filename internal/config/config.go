// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Cinemind server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	LLM       LLMConfig       `koanf:"llm"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownGrace is how long graceful shutdown waits for in-flight
	// requests and enrichment backfills before exiting.
	ShutdownGrace time.Duration `koanf:"shutdown_grace"`
}

// DatabaseConfig configures the embedded DuckDB store shared by the catalog,
// the vector index, and the enrichment cache.
type DatabaseConfig struct {
	// Path is the database file path. ":memory:" is allowed for tests.
	Path string `koanf:"path"`

	// MaxMemory bounds DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedSampleData loads a small development catalog on startup.
	SeedSampleData bool `koanf:"seed_sample_data"`
}

// LLMConfig configures the reasoning (chat completion) client.
type LLMConfig struct {
	// BaseURL is the OpenAI-compatible API root, without trailing slash.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates completion requests.
	APIKey string `koanf:"api_key"`

	// CapableModel is the high-capability tier used for ranking,
	// comparison, enrichment and preference summarization.
	CapableModel string `koanf:"capable_model"`

	// LightModel is the lightweight tier used for query enhancement.
	LightModel string `koanf:"light_model"`

	// Timeout bounds a single completion HTTP call.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond rate-limits outbound completion calls; 0 disables
	// the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// EmbeddingConfig configures the embedding client.
type EmbeddingConfig struct {
	// BaseURL is the OpenAI-compatible API root, without trailing slash.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates embedding requests.
	APIKey string `koanf:"api_key"`

	// Model is the embedding model identifier.
	Model string `koanf:"model"`

	// Timeout bounds a single embedding HTTP call.
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig configures the caller-facing HTTP surface.
type APIConfig struct {
	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the inbound request budget per window; 0 disables
	// inbound rate limiting.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the inbound rate-limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url must not be empty")
	}
	if c.LLM.CapableModel == "" || c.LLM.LightModel == "" {
		return fmt.Errorf("llm.capable_model and llm.light_model must not be empty")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.LLM.RequestsPerSecond < 0 {
		return fmt.Errorf("llm.requests_per_second must not be negative, got %f", c.LLM.RequestsPerSecond)
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url must not be empty")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model must not be empty")
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding.timeout must be positive, got %s", c.Embedding.Timeout)
	}
	if c.API.RateLimitReqs < 0 {
		return fmt.Errorf("api.rate_limit_reqs must not be negative, got %d", c.API.RateLimitReqs)
	}
	return nil
}
