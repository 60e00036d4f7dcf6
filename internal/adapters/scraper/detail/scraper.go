// Package detail scrapes a single paper page into a paper.Detail.
package detail

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/newsbot/internal/adapters/scraper/htmlq"
	"github.com/okian/newsbot/internal/adapters/source"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/pkg/logger"
	"github.com/okian/newsbot/pkg/metrics"
)

// Field names an independently extracted part of the detail page.
type Field string

// Detail fields.
const (
	FieldPDF      Field = "pdf"
	FieldAbstract Field = "abstract"
	FieldCode     Field = "code"
)

// AllFields lists the fields in extraction order.
var AllFields = []Field{FieldPDF, FieldAbstract, FieldCode} //nolint:gochecknoglobals // constant list

// PathPrefix is the prefix every paper path must carry.
const PathPrefix = "paper/"

// Detail page markup.
const (
	abstractSelector     = "div.paper-abstract"
	pdfBadgeSelector     = "a.badge.badge-light"
	pdfLabel             = "PDF"
	implementationRows   = "div#implementations-short-list div.row"
	officialCodeSelector = "span.badge.badge-info.is-official-code"
)

// Scraper opens paper pages on the listing site.
type Scraper struct {
	fetcher source.Fetcher
	log     logger.Logger
}

// Option applies a configuration option to the Scraper.
type Option func(*Scraper)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a detail scraper reading through f.
func New(f source.Fetcher, opts ...Option) *Scraper {
	s := &Scraper{fetcher: f, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page is a paper page that is known to exist.
type Page struct {
	path    string
	fetcher source.Fetcher
	log     logger.Logger
}

// Path returns the site-relative path, e.g. "paper/attention".
func (p *Page) Path() string { return p.path }

// Open validates path and checks that the page exists. A 404 yields ErrPaperNotFound; any
// other non-2xx answer or transport failure yields source.ErrSourceUnavailable.
func (s *Scraper) Open(ctx context.Context, path string) (*Page, error) {
	if !strings.HasPrefix(path, PathPrefix) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	code, err := s.fetcher.Probe(ctx, source.KindDetail, "/"+path)
	if err != nil {
		return nil, err
	}
	switch {
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPaperNotFound, path)
	case code < 200 || code > 299:
		return nil, &source.StatusError{URL: "/" + path, Code: code}
	}
	return &Page{path: path, fetcher: s.fetcher, log: s.log}, nil
}

// Fetch downloads the page and extracts every field. Missing fields are
// reported in FieldErrors; the returned error is only for the download.
func (p *Page) Fetch(ctx context.Context) (paper.Detail, FieldErrors, error) {
	doc, err := p.fetcher.Document(ctx, source.KindDetail, "/"+p.path, nil)
	if err != nil {
		return paper.Detail{}, nil, fmt.Errorf("fetch paper %s: %w", p.path, err)
	}
	d, fe := Extract(doc)
	d.Path = p.path
	for f, ferr := range fe {
		metrics.RecordDetailFieldMissing(string(f))
		p.log.Warn(ctx, "paper field not found",
			logger.String("path", p.path), logger.String("field", string(f)), logger.Error(ferr))
	}
	return d, fe, nil
}

// FetchDetail opens and fetches path, failing when any required field is missing.
func (s *Scraper) FetchDetail(ctx context.Context, path string, required ...Field) (paper.Detail, error) {
	page, err := s.Open(ctx, path)
	if err != nil {
		return paper.Detail{}, err
	}
	d, fe, err := page.Fetch(ctx)
	if err != nil {
		return paper.Detail{}, err
	}
	if len(required) > 0 {
		if err := fe.Err(required...); err != nil {
			return paper.Detail{}, fmt.Errorf("paper %s: %w", path, err)
		}
	}
	return d, nil
}

// Extract reads the three detail fields independently from a parsed page.
func Extract(doc *goquery.Document) (paper.Detail, FieldErrors) {
	var d paper.Detail
	fe := FieldErrors{}

	if v, err := extractPDF(doc.Selection); err != nil {
		fe[FieldPDF] = err
	} else {
		d.PDFURL = v
	}
	if v, err := extractAbstract(doc.Selection); err != nil {
		fe[FieldAbstract] = err
	} else {
		d.Abstract = v
	}
	if v, err := extractCode(doc.Selection); err != nil {
		fe[FieldCode] = err
	} else {
		d.OfficialCodeURL = &v
	}
	return d, fe
}

func extractPDF(root *goquery.Selection) (string, error) {
	section, ok := htmlq.First(root, abstractSelector)
	if !ok {
		return "", paper.MissingAttribute(string(FieldPDF))
	}
	for _, a := range htmlq.Anchors(section, pdfBadgeSelector) {
		if a.Label == pdfLabel && a.Href != "" {
			return a.Href, nil
		}
	}
	return "", paper.MissingAttribute(string(FieldPDF))
}

func extractAbstract(root *goquery.Selection) (string, error) {
	section, ok := htmlq.First(root, abstractSelector)
	if !ok {
		return "", paper.MissingAttribute(string(FieldAbstract))
	}
	text, ok := htmlq.Text(section, "p")
	if !ok {
		return "", paper.MissingAttribute(string(FieldAbstract))
	}
	return text, nil
}

func extractCode(root *goquery.Selection) (string, error) {
	for _, row := range htmlq.All(root, implementationRows) {
		if !htmlq.Has(row, officialCodeSelector) {
			continue
		}
		if href, ok := htmlq.Attr(row, "a", "href"); ok {
			return href, nil
		}
	}
	return "", paper.MissingAttribute(string(FieldCode))
}
