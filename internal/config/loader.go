package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if ALGOMATE_CONFIG is set
//  3. env (prefix ALGOMATE_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ALGOMATE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ALGOMATE_WINDOW_DAYS, ALGOMATE_QUEUE_SIZE, ...
	// Map env keys like ALGOMATE_WINDOW_DAYS -> window_days (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ALGOMATE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "algomate_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.WindowDays <= 0 {
		return nil, fmt.Errorf("%w: window_days must be positive", ErrInvalidConfig)
	}
	if cfg.RecommendationLimit <= 0 {
		return nil, fmt.Errorf("%w: recommendation_limit must be positive", ErrInvalidConfig)
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
