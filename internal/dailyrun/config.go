package dailyrun

import (
	"time"

	"github.com/okian/newsbot/internal/pipeline"
)

// Config holds configuration for one daily run.
type Config struct {
	ListingURL    string // Base URL of the listing service
	SelectionURL  string // Base URL of the selection service
	DetailURL     string // Base URL of the detail service
	SummarizerURL string // Base URL of the summarizer
	NbPapers      int    // Trending papers requested
	Timeouts      pipeline.Timeouts
	CheckTimeout  time.Duration // Per-service reachability check timeout; zero skips the check
	OutputFile    string        // Report destination; empty or "-" writes to stdout
}

// Services returns the distinct service URLs in pipeline order.
func (c *Config) Services() []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range []string{c.ListingURL, c.SelectionURL, c.DetailURL, c.SummarizerURL} {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
