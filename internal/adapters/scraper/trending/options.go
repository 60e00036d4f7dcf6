package trending

import "github.com/okian/newsbot/pkg/logger"

// Option applies a configuration option to the Scraper.
type Option func(*Scraper)

// WithMaxPages caps the number of listing pages fetched by one call.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithDedupe drops candidates whose path already appeared earlier in the same call.
func WithDedupe(on bool) Option {
	return func(s *Scraper) {
		s.dedupe = on
	}
}

// WithDedupeMaxSize bounds how many recent paths the deduper remembers.
// Zero keeps every path for the whole call.
func WithDedupeMaxSize(n int) Option {
	return func(s *Scraper) {
		if n >= 0 {
			s.dedupeMax = n
		}
	}
}

// WithListingPath sets the listing path requested with ?page=N.
func WithListingPath(path string) Option {
	return func(s *Scraper) {
		if path != "" {
			s.listingPath = path
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.log = l
		}
	}
}
