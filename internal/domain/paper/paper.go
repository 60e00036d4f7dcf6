// Package paper holds the records passed between the scraping, selection and
// summarization stages, plus the date arithmetic they share.
package paper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ListingDateLayout is the "DD Mon YYYY" format used by the listing cards.
const ListingDateLayout = "2 Jan 2006"

const day = 24 * time.Hour

// Candidate is a paper as seen on the trending listing.
// The pointer fields are nil when the value is absent; the scraper always sets them.
type Candidate struct {
	Title           string     `json:"Title"`
	Path            string     `json:"URL"`
	PublicationDate *time.Time `json:"Publication date"`
	Stars           *int       `json:"Stars"`
	StarsPerHour    *float64   `json:"Stars per hour"`
}

// Detail is the enriched record scraped from a paper's own page.
type Detail struct {
	Path            string  `json:"-"`
	PDFURL          string  `json:"pdf_url"`
	Abstract        string  `json:"abstract"`
	OfficialCodeURL *string `json:"official implementation"`
}

// Report is the pipeline output: the chosen paper's identity, its detail and the summary.
type Report struct {
	Title           string  `json:"Title"`
	Path            string  `json:"URL"`
	PDFURL          string  `json:"pdf_url"`
	Abstract        string  `json:"abstract"`
	OfficialCodeURL *string `json:"official implementation"`
	Summary         string  `json:"Summary"`
}

// NewReport assembles a report from the stage outputs.
func NewReport(c Candidate, d Detail, summary string) Report {
	return Report{
		Title:           c.Title,
		Path:            c.Path,
		PDFURL:          d.PDFURL,
		Abstract:        d.Abstract,
		OfficialCodeURL: d.OfficialCodeURL,
		Summary:         summary,
	}
}

// NewCandidate builds a fully populated candidate.
func NewCandidate(title, path string, published time.Time, stars int, starsPerHour float64) Candidate {
	published = published.UTC()
	return Candidate{
		Title:           title,
		Path:            path,
		PublicationDate: &published,
		Stars:           &stars,
		StarsPerHour:    &starsPerHour,
	}
}

// Key identifies a candidate across pages.
func (c Candidate) Key() string { return c.Path }

// Published returns the publication date or an *AttributeError.
func (c Candidate) Published() (time.Time, error) {
	if c.PublicationDate == nil {
		return time.Time{}, MissingAttribute("Publication date")
	}
	return *c.PublicationDate, nil
}

// UnmarshalJSON accepts RFC 3339, zone-less ISO 8601 and listing-format dates.
func (c *Candidate) UnmarshalJSON(b []byte) error {
	type alias Candidate
	var raw struct {
		alias
		PublicationDate *string `json:"Publication date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = Candidate(raw.alias)
	c.PublicationDate = nil
	if raw.PublicationDate != nil {
		t, err := ParseDate(*raw.PublicationDate)
		if err != nil {
			return err
		}
		c.PublicationDate = &t
	}
	return nil
}

var wireDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	ListingDateLayout,
}

// ParseDate parses any date format the services exchange. Values without a
// zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range wireDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseListingDate parses "DD Mon YYYY" into UTC midnight.
func ParseListingDate(s string) (time.Time, error) {
	t, err := time.Parse(ListingDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse listing date %q: %w", s, err)
	}
	return t, nil
}

// FormatListingDate renders t as "DD Mon YYYY".
func FormatListingDate(t time.Time) string {
	return t.UTC().Format("02 Jan 2006")
}

// DaysSince returns the whole days elapsed from t to now, rounded down.
// A t later than now yields ErrFutureDate.
func DaysSince(now, t time.Time) (int, error) {
	d := now.Sub(t)
	if d < 0 {
		return 0, fmt.Errorf("%w: %s is after %s", ErrFutureDate,
			t.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	return int(d / day), nil
}
