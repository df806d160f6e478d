package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stress.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
duration: 3s
worlds: 4
churn_rate: 0.5
ecs:
  chunk_size: 64
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, cfg.Duration)
		assert.Equal(t, 4, cfg.Worlds)
		assert.Equal(t, 0.5, cfg.ChurnRate)
		assert.Equal(t, 64, cfg.ECS.ChunkSize)
		assert.Equal(t, 10000, cfg.Entities, "unset keys keep their default")
		assert.Equal(t, 1024, cfg.ECS.InitialCapacity)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stress.yaml")
		require.NoError(t, os.WriteFile(path, []byte("worlds: 0\n"), 0o644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "worlds must be positive")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero duration", func(c *Config) { c.Duration = 0 }, "duration must be positive"},
		{"negative entities", func(c *Config) { c.Entities = -1 }, "entities must not be negative"},
		{"churn above one", func(c *Config) { c.ChurnRate = 1.5 }, "churn_rate"},
		{"churn without lifetime", func(c *Config) { c.MaxLifetime = 0 }, "max_lifetime"},
		{"unknown profile", func(c *Config) { c.Profile = "gpu" }, "unknown profile mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.err)
			}
		})
	}
}
