package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/plus3/keystone/ecs"
)

// Config describes a stress run. It is read from a yaml file and then
// overridden by any flag given on the command line.
type Config struct {
	Duration time.Duration `yaml:"duration"`
	Worlds   int           `yaml:"worlds"`
	Entities int           `yaml:"entities"`
	// ChurnRate is the fraction of entities given a finite lifetime, so they are
	// destroyed and replaced while the run goes on.
	ChurnRate      float64    `yaml:"churn_rate"`
	MaxLifetime    int        `yaml:"max_lifetime"`
	Seed           int64      `yaml:"seed"`
	GCPauseMetrics bool       `yaml:"gc_pause_metrics"`
	Profile        string     `yaml:"profile"`
	LogLevel       string     `yaml:"log_level"`
	ECS            ecs.Config `yaml:"ecs"`
}

func DefaultConfig() Config {
	return Config{
		Duration:    10 * time.Second,
		Worlds:      1,
		Entities:    10000,
		ChurnRate:   0.25,
		MaxLifetime: 120,
		Seed:        1,
		LogLevel:    "info",
		ECS:         ecs.DefaultConfig(),
	}
}

// LoadConfig reads a yaml file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Duration <= 0:
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	case c.Worlds <= 0:
		return fmt.Errorf("worlds must be positive, got %d", c.Worlds)
	case c.Entities < 0:
		return fmt.Errorf("entities must not be negative, got %d", c.Entities)
	case c.ChurnRate < 0 || c.ChurnRate > 1:
		return fmt.Errorf("churn_rate must be within [0, 1], got %g", c.ChurnRate)
	case c.ChurnRate > 0 && c.MaxLifetime <= 0:
		return fmt.Errorf("max_lifetime must be positive when churn_rate is set")
	}
	switch c.Profile {
	case "", "cpu", "mem", "block", "mutex", "trace":
	default:
		return fmt.Errorf("unknown profile mode %q", c.Profile)
	}
	return nil
}
