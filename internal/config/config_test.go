package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 0.7, cfg.SimilarityThreshold)
	assert.False(t, cfg.PersistenceEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/npcs")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TICK_INTERVAL", "100ms")
	t.Setenv("WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.PersistenceEnabled())
	assert.True(t, cfg.ModelEnabled())
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	t.Setenv("WORKERS", "-1")
	_, err := Load()
	require.Error(t, err)
}
