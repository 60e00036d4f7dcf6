// Package source fetches and parses pages of the paper listing site.
package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/okian/newsbot/pkg/logger"
	"github.com/okian/newsbot/pkg/metrics"
)

// Request kinds used as metric labels.
const (
	KindListing = "listing"
	KindDetail  = "detail"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "newsbot/1.0"
)

// Fetcher retrieves parsed pages. Scrapers depend on it rather than on Client.
type Fetcher interface {
	// Document GETs path and parses the body. Non-2xx answers yield a *StatusError.
	Document(ctx context.Context, kind, path string, query map[string]string) (*goquery.Document, error)
	// Probe GETs path and returns the status code without parsing.
	Probe(ctx context.Context, kind, path string) (int, error)
}

// Client is a rate-limited HTTP client bound to one site.
type Client struct {
	http    *resty.Client
	baseURL string

	timeout       time.Duration
	userAgent     string
	ratePerSecond float64
	burst         int
	log           logger.Logger
}

type ctxKey int

const (
	kindKey ctxKey = iota
	startKey
)

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		burst:     1,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(c.timeout).
		SetHeader("User-Agent", c.userAgent)

	if c.ratePerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(c.ratePerSecond), c.burst)
		h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}
	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetContext(context.WithValue(req.Context(), startKey, time.Now()))
		return nil
	})
	h.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		observe(res.Request, statusClass(res.StatusCode()))
		return nil
	})
	h.OnError(func(req *resty.Request, err error) {
		observe(req, "error")
		c.log.Warn(req.Context(), "source request failed",
			logger.String("url", req.URL), logger.Error(err))
	})

	c.http = h
	return c
}

// BaseURL returns the site root the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// Document implements Fetcher.
func (c *Client) Document(ctx context.Context, kind, path string, query map[string]string) (*goquery.Document, error) {
	res, err := c.get(ctx, kind, path, query)
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, &StatusError{URL: res.Request.URL, Code: res.StatusCode()}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", res.Request.URL, err)
	}
	return doc, nil
}

// Probe implements Fetcher.
func (c *Client) Probe(ctx context.Context, kind, path string) (int, error) {
	res, err := c.get(ctx, kind, path, nil)
	if err != nil {
		return 0, err
	}
	return res.StatusCode(), nil
}

func (c *Client) get(ctx context.Context, kind, path string, query map[string]string) (*resty.Response, error) {
	res, err := c.http.R().
		SetContext(context.WithValue(ctx, kindKey, kind)).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrSourceUnavailable, path, err)
	}
	return res, nil
}

func observe(req *resty.Request, status string) {
	ctx := req.Context()
	kind, _ := ctx.Value(kindKey).(string)
	var ms float64
	if start, ok := ctx.Value(startKey).(time.Time); ok {
		ms = float64(time.Since(start).Microseconds()) / 1000
	}
	metrics.RecordSourceRequest(kind, status, ms)
}

func statusClass(code int) string {
	switch {
	case code >= http.StatusInternalServerError:
		return "5xx"
	case code >= http.StatusBadRequest:
		return "4xx"
	case code >= http.StatusMultipleChoices:
		return "3xx"
	default:
		return "2xx"
	}
}
