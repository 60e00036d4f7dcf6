// Package trending scrapes the paginated trending listing into candidates.
package trending

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/newsbot/internal/adapters/scraper/htmlq"
	"github.com/okian/newsbot/internal/adapters/source"
	"github.com/okian/newsbot/internal/domain/dedupe"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/pkg/logger"
	"github.com/okian/newsbot/pkg/metrics"
)

// Listing markup.
const (
	cardSelector         = "div.row.infinite-item.item.paper-card"
	titleSelector        = "h1"
	pathSelector         = "h1 a[href]"
	dateSelector         = "span.author-name-text.item-date-pub"
	starsSelector        = "span.badge.badge-secondary"
	starsPerHourSelector = "div.stars-accumulated.text-center"
	starsPerHourSuffix   = "stars / hour"
)

const defaultMaxPages = 50

// Scraper walks listing pages until it has enough candidates.
type Scraper struct {
	fetcher     source.Fetcher
	listingPath string
	maxPages    int
	dedupe      bool
	dedupeMax   int
	log         logger.Logger
}

// New creates a scraper reading listing pages through f.
func New(f source.Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:     f,
		listingPath: "/",
		maxPages:    defaultMaxPages,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchTrending returns at most maxCount candidates in listing order.
// Pages are fetched one at a time, starting at 1, until enough candidates are
// collected, a page yields none, or the page cap is reached.
func (s *Scraper) FetchTrending(ctx context.Context, maxCount int) ([]paper.Candidate, error) {
	if maxCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, maxCount)
	}
	out := make([]paper.Candidate, 0, maxCount)
	if maxCount == 0 {
		return out, nil
	}

	var seen dedupe.Deduper
	if s.dedupe {
		seen = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeMax))
	}

	for page := 1; len(out) < maxCount; page++ {
		if page > s.maxPages {
			s.log.Warn(ctx, "listing page cap reached",
				logger.Int("max_pages", s.maxPages), logger.Int("collected", len(out)))
			break
		}
		doc, err := s.fetcher.Document(ctx, source.KindListing, s.listingPath,
			map[string]string{"page": strconv.Itoa(page)})
		if err != nil {
			return nil, fmt.Errorf("fetch listing page %d: %w", page, err)
		}
		metrics.RecordListingPage()

		found := ExtractPage(ctx, doc, s.log)
		s.log.Debug(ctx, "listing page parsed",
			logger.Int("page", page), logger.Int("candidates", len(found)))
		if len(found) == 0 {
			break
		}
		for _, c := range found {
			if seen != nil && seen.SeenAndRecord(ctx, c.Key()) {
				continue
			}
			out = append(out, c)
		}
	}

	if len(out) > maxCount {
		out = out[:maxCount]
	}
	return out, nil
}

// ExtractPage converts every well formed card of a listing page. Malformed
// cards are logged and dropped.
func ExtractPage(ctx context.Context, doc *goquery.Document, log logger.Logger) []paper.Candidate {
	if log == nil {
		log = logger.Nop()
	}
	var out []paper.Candidate
	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		c, err := ExtractCard(card)
		if err != nil {
			metrics.RecordListingCard("dropped")
			log.Warn(ctx, "error while parsing paper content",
				logger.Int("card", i), logger.Error(err))
			return
		}
		metrics.RecordListingCard("extracted")
		out = append(out, c)
	})
	return out
}

// ExtractCard reads one listing card. The error names the first field that
// is missing or unparsable.
func ExtractCard(card *goquery.Selection) (paper.Candidate, error) {
	title, ok := htmlq.Text(card, titleSelector)
	if !ok {
		return paper.Candidate{}, paper.MissingAttribute("Title")
	}
	path, ok := htmlq.Attr(card, pathSelector, "href")
	if !ok {
		return paper.Candidate{}, paper.MissingAttribute("URL")
	}

	rawDate, ok := htmlq.Text(card, dateSelector)
	if !ok {
		return paper.Candidate{}, paper.MissingAttribute("Publication date")
	}
	published, err := paper.ParseListingDate(rawDate)
	if err != nil {
		return paper.Candidate{}, err
	}

	rawStars, ok := htmlq.Text(card, starsSelector)
	if !ok {
		return paper.Candidate{}, paper.MissingAttribute("Stars")
	}
	stars, err := parseCount(rawStars)
	if err != nil {
		return paper.Candidate{}, fmt.Errorf("stars: %w", err)
	}

	rawRate, ok := htmlq.Text(card, starsPerHourSelector)
	if !ok {
		return paper.Candidate{}, paper.MissingAttribute("Stars per hour")
	}
	perHour, err := parseRate(strings.ReplaceAll(rawRate, starsPerHourSuffix, ""))
	if err != nil {
		return paper.Candidate{}, fmt.Errorf("stars per hour: %w", err)
	}

	return paper.NewCandidate(title, path, published, stars, perHour), nil
}

// parseCount reads a "1,234" style non-negative integer.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(htmlq.Clean(s), ",", ""))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: count %d", ErrNegativeValue, v)
	}
	return v, nil
}

// parseRate reads a "1,234.5" style non-negative finite number.
func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(htmlq.Clean(s), ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse rate %q: not a finite number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: rate %v", ErrNegativeValue, v)
	}
	return v, nil
}
