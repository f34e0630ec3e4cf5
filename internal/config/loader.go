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
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PROPTRACKER_CONFIG is set
//  3. env (prefix PROPTRACKER_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PROPTRACKER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PROPTRACKER_ADDR, PROPTRACKER_STORAGE_PATH, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PROPTRACKER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "proptracker_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.FeedBaseURL == "":
		return nil, fmt.Errorf("%w: feed_base_url must not be empty", ErrInvalidConfig)
	case cfg.PropsPollIntervalMS <= 0 || cfg.LivePollIntervalMS <= 0:
		return nil, fmt.Errorf("%w: poll intervals must be positive", ErrInvalidConfig)
	case cfg.StoragePath == "":
		return nil, fmt.Errorf("%w: storage_path must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
