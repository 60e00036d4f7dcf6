// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers a YAML file and environment variables over those defaults.
// - Validate reports every problem wrapped in ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	Source    Source    `koanf:"source"`
	Trending  Trending  `koanf:"trending"`
	Selection Selection `koanf:"selection"`
	Pipeline  Pipeline  `koanf:"pipeline"`
}

// Source configures access to the paper listing site.
type Source struct {
	// BaseURL is the site root; listing and detail paths are resolved against it.
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`

	// RatePerSecond and Burst bound outgoing requests. Zero disables limiting.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	// MaxPages stops pagination when the listing never runs dry.
	MaxPages int `koanf:"max_pages"`

	// Dedupe drops candidates whose path was already seen in the same fetch.
	Dedupe bool `koanf:"dedupe"`
	// DedupeMax bounds how many recent paths dedupe remembers. Zero is unbounded.
	DedupeMax int `koanf:"dedupe_max"`
}

// Trending configures the listing endpoint.
type Trending struct {
	// DefaultCount is used when nb_papers is not supplied.
	DefaultCount int `koanf:"default_count"`
}

// Selection configures the evaluator and manager registries.
type Selection struct {
	Evaluator Evaluator `koanf:"evaluator"`
	Manager   Manager   `koanf:"manager"`
}

// Evaluator selects and parameterises a scoring policy.
type Evaluator struct {
	Kind               string  `koanf:"kind"`
	StarsPerHourWeight float64 `koanf:"stars_per_hour_weight"`
	StarsWeight        float64 `koanf:"stars_weight"`
	DateDiffWeight     float64 `koanf:"date_diff_weight"`
}

// Manager selects and parameterises a selection policy.
type Manager struct {
	Kind   string `koanf:"kind"`
	MaxDay int    `koanf:"max_day"`
}

// Pipeline configures the daily paper run and its collaborators.
type Pipeline struct {
	ListingURL    string `koanf:"listing_url"`
	SelectionURL  string `koanf:"selection_url"`
	DetailURL     string `koanf:"detail_url"`
	SummarizerURL string `koanf:"summarizer_url"`

	// NbPapers is the number of trending papers requested per run.
	NbPapers int `koanf:"nb_papers"`

	ListingTimeout   time.Duration `koanf:"listing_timeout"`
	SelectionTimeout time.Duration `koanf:"selection_timeout"`
	DetailTimeout    time.Duration `koanf:"detail_timeout"`
	SummarizeTimeout time.Duration `koanf:"summarize_timeout"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		Source: Source{
			BaseURL:       "https://paperswithcode.com",
			Timeout:       15 * time.Second,
			UserAgent:     "newsbot/1.0 (+https://github.com/okian/newsbot)",
			RatePerSecond: 2,
			Burst:         1,
			MaxPages:      50,
			DedupeMax:     1000,
		},
		Trending: Trending{DefaultCount: 10},
		Selection: Selection{
			Evaluator: Evaluator{
				Kind:               "simple",
				StarsPerHourWeight: 1.0,
				StarsWeight:        1.0,
				DateDiffWeight:     1.0,
			},
			Manager: Manager{Kind: "simple", MaxDay: 14},
		},
		Pipeline: Pipeline{
			ListingURL:       "http://localhost:9080",
			SelectionURL:     "http://localhost:9080",
			DetailURL:        "http://localhost:9080",
			SummarizerURL:    "http://localhost:8000",
			NbPapers:         20,
			ListingTimeout:   10 * time.Second,
			SelectionTimeout: 10 * time.Second,
			DetailTimeout:    10 * time.Second,
			SummarizeTimeout: 600 * time.Second,
		},
	}
}
