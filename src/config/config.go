package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the burst detection parameters. Thresholds are validated
// at load time so bad values surface at startup, never mid-stream.
type Config struct {
	SilenceThreshold   float64 `yaml:"silence_threshold"`   // seconds of quiet that ends a burst
	MinVolume          int64   `yaml:"min_volume"`          // share floor for a burst to be output
	DirectionThreshold float64 `yaml:"direction_threshold"` // buy/sell ratio for classification
	LogLevel           string  `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		SilenceThreshold:   1.0,
		MinVolume:          100,
		DirectionThreshold: 0.9,
		LogLevel:           "info",
	}
}

// Default returns the reference parameter set.
func Default() Config {
	return defaults()
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SilenceThreshold <= 0 {
		return errors.New("silence_threshold must be > 0")
	}
	if c.MinVolume < 0 {
		return errors.New("min_volume must be >= 0")
	}
	// a ratio at or below 0.5 can satisfy both sides at once
	if c.DirectionThreshold <= 0.5 || c.DirectionThreshold > 1 {
		return errors.New("direction_threshold must be in (0.5, 1]")
	}
	return nil
}
