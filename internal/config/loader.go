package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "NEWSBOT_"
	// EnvConfigFile names the variable pointing at an optional YAML file.
	EnvConfigFile = "NEWSBOT_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NEWSBOT_CONFIG is set
//  3. env (prefix NEWSBOT_, "__" separates nested keys)
//
// NEWSBOT_SOURCE__BASE_URL maps to source.base_url.
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file path itself is not a setting.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail later at request time.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	check(c.Addr != "", "addr must not be empty")
	check(c.Source.BaseURL != "", "source.base_url must not be empty")
	check(c.Source.Timeout > 0, "source.timeout must be positive")
	check(c.Source.RatePerSecond >= 0, "source.rate_per_second must not be negative")
	check(c.Source.RatePerSecond == 0 || c.Source.Burst > 0, "source.burst must be positive when rate limiting")
	check(c.Source.MaxPages > 0, "source.max_pages must be positive")
	check(c.Source.DedupeMax >= 0, "source.dedupe_max must not be negative")
	check(c.Trending.DefaultCount >= 0, "trending.default_count must not be negative")

	ev := c.Selection.Evaluator
	check(ev.StarsPerHourWeight >= 0, "selection.evaluator.stars_per_hour_weight must not be negative")
	check(ev.StarsWeight >= 0, "selection.evaluator.stars_weight must not be negative")
	check(ev.DateDiffWeight > 0, "selection.evaluator.date_diff_weight must be positive")
	check(c.Selection.Manager.MaxDay >= 0, "selection.manager.max_day must not be negative")

	p := c.Pipeline
	check(p.ListingURL != "" && p.SelectionURL != "" && p.DetailURL != "" && p.SummarizerURL != "",
		"pipeline service urls must not be empty")
	check(p.NbPapers > 0, "pipeline.nb_papers must be positive")
	check(p.ListingTimeout > 0 && p.SelectionTimeout > 0 && p.DetailTimeout > 0 && p.SummarizeTimeout > 0,
		"pipeline timeouts must be positive")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
