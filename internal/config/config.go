// Package config loads runtime settings from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings. Persistence and the model path are both
// optional: without DATABASE_URL the core runs in-memory only, and without
// an API key dialogue falls back to templates.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	LLMModel      string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	GoogleAPIKey   string `env:"GOOGLE_API_KEY"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`

	TickInterval  time.Duration `env:"TICK_INTERVAL" envDefault:"250ms"`
	Workers       int           `env:"WORKERS" envDefault:"8"`
	ReplyDeadline time.Duration `env:"REPLY_DEADLINE" envDefault:"800ms"`

	TopK                int     `env:"TOP_K" envDefault:"5"`
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.7"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates what was set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	return cfg, nil
}

// ModelEnabled reports whether the AI dialogue path is configured.
func (c Config) ModelEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// PersistenceEnabled reports whether PostgreSQL persistence is configured.
func (c Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

// EmbeddingEnabled reports whether similarity retrieval is configured.
func (c Config) EmbeddingEnabled() bool {
	return c.GoogleAPIKey != ""
}
