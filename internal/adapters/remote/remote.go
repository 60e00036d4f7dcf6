// Package remote holds HTTP clients for the listing, selection, detail and
// summarizer services the daily pipeline calls.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/okian/newsbot/internal/domain/paper"
)

// Service endpoints.
const (
	TrendingPath  = "/paper/trending_papers"
	BestPath      = "/selection/best"
	DetailPath    = "/paper/"
	SummarizePath = "/summarize"
)

const maxErrorBody = 512

// Listing fetches trending candidates.
type Listing interface {
	Trending(ctx context.Context, n int) ([]paper.Candidate, error)
}

// Selection picks the best candidate.
type Selection interface {
	Best(ctx context.Context, cs []paper.Candidate) (paper.Candidate, error)
}

// Details fetches the detail record of a paper path.
type Details interface {
	Detail(ctx context.Context, path string) (paper.Detail, error)
}

// Summarizer summarizes a document.
type Summarizer interface {
	Summarize(ctx context.Context, documentURL string) (string, error)
}

// Client talks to one collaborator service. It implements every role; the
// pipeline uses one Client per configured URL.
type Client struct {
	name string
	http *resty.Client
}

// New creates a client for the service at baseURL. name is used in errors.
func New(name, baseURL string) *Client {
	return &Client{
		name: name,
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
	}
}

// Trending implements Listing.
func (c *Client) Trending(ctx context.Context, n int) ([]paper.Candidate, error) {
	var out []paper.Candidate
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("nb_papers", strconv.Itoa(n)).
		Get(TrendingPath)
	if err := c.check(res, err); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %w", ErrRemote, c.name, err)
	}
	return out, nil
}

// Best implements Selection.
func (c *Client) Best(ctx context.Context, cs []paper.Candidate) (paper.Candidate, error) {
	var out paper.Candidate
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(cs).
		Post(BestPath)
	if err := c.check(res, err); err != nil {
		return out, err
	}
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return out, fmt.Errorf("%w: decode %s response: %w", ErrRemote, c.name, err)
	}
	return out, nil
}

// Detail implements Details. path is sent as paper_url without a leading slash.
func (c *Client) Detail(ctx context.Context, path string) (paper.Detail, error) {
	var out paper.Detail
	path = strings.TrimPrefix(path, "/")
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("paper_url", path).
		Post(DetailPath)
	if err := c.check(res, err); err != nil {
		return out, err
	}
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return out, fmt.Errorf("%w: decode %s response: %w", ErrRemote, c.name, err)
	}
	out.Path = path
	return out, nil
}

// Summarize implements Summarizer. The answer may be a JSON string or plain text.
func (c *Client) Summarize(ctx context.Context, documentURL string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("paper_url", documentURL).
		Post(SummarizePath)
	if err := c.check(res, err); err != nil {
		return "", err
	}
	body := res.Body()
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s, nil
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) check(res *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRemote, c.name, err)
	}
	if !res.IsSuccess() {
		body := strings.TrimSpace(res.String())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Service: c.name, URL: res.Request.URL, Code: res.StatusCode(), Body: body}
	}
	return nil
}
