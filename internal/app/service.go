// Package service wires the scrapers, selection policy and daily pipeline
// from configuration and exposes them to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/newsbot/internal/adapters/remote"
	"github.com/okian/newsbot/internal/adapters/scraper/detail"
	"github.com/okian/newsbot/internal/adapters/scraper/trending"
	"github.com/okian/newsbot/internal/adapters/source"
	"github.com/okian/newsbot/internal/config"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/domain/scoring"
	"github.com/okian/newsbot/internal/domain/selection"
	"github.com/okian/newsbot/internal/pipeline"
	"github.com/okian/newsbot/pkg/logger"
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns every collaborator built from configuration.
type Service struct {
	mu sync.RWMutex

	cfg config.Config
	now func() time.Time

	// Core components
	source    *source.Client
	trending  *trending.Scraper
	details   *detail.Scraper
	evaluator scoring.Evaluator
	manager   selection.Manager
	pipeline  *pipeline.Pipeline

	// Counters
	trendingRequests atomic.Int64
	detailRequests   atomic.Int64
	pipelineRuns     atomic.Int64
	pipelineFailures atomic.Int64

	lastReport *paper.Report
	lastRunAt  time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNow sets the clock used for paper ages.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over cfg. Nothing is built until Start.
func New(cfg config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the collaborators. It fails when a configured evaluator or
// manager kind is unknown or its parameters are out of range; a failed Start
// leaves the service unstarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting newsbot service...")

	src := s.cfg.Source
	client := source.New(src.BaseURL,
		source.WithTimeout(src.Timeout),
		source.WithUserAgent(src.UserAgent),
		source.WithRateLimit(src.RatePerSecond, src.Burst),
		source.WithLogger(s.logger.Named("source")),
	)

	ev := s.cfg.Selection.Evaluator
	evaluator, err := scoring.NewEvaluator(ev.Kind, scoring.Params{
		StarsPerHourWeight: ev.StarsPerHourWeight,
		StarsWeight:        ev.StarsWeight,
		DateDiffWeight:     ev.DateDiffWeight,
	}, scoring.WithNow(s.now), scoring.WithLogger(s.logger.Named("scoring")))
	if err != nil {
		return fmt.Errorf("build evaluator: %w", err)
	}
	mgr := s.cfg.Selection.Manager
	manager, err := selection.NewManager(mgr.Kind, evaluator, mgr.MaxDay,
		selection.WithNow(s.now), selection.WithLogger(s.logger.Named("selection")))
	if err != nil {
		return fmt.Errorf("build manager: %w", err)
	}

	p := s.cfg.Pipeline
	pl := pipeline.New(
		remote.New("listing", p.ListingURL),
		remote.New("selection", p.SelectionURL),
		remote.New("detail", p.DetailURL),
		remote.New("summarizer", p.SummarizerURL),
		pipeline.WithNbPapers(p.NbPapers),
		pipeline.WithTimeouts(pipeline.Timeouts{
			Listing:   p.ListingTimeout,
			Selection: p.SelectionTimeout,
			Detail:    p.DetailTimeout,
			Summarize: p.SummarizeTimeout,
		}),
		pipeline.WithLogger(s.logger.Named("pipeline")),
	)

	// Nothing is published until every collaborator is built.
	s.source = client
	s.trending = trending.New(client,
		trending.WithMaxPages(src.MaxPages),
		trending.WithDedupe(src.Dedupe),
		trending.WithDedupeMaxSize(src.DedupeMax),
		trending.WithLogger(s.logger.Named("trending")),
	)
	s.details = detail.New(client, detail.WithLogger(s.logger.Named("detail")))
	s.evaluator, s.manager = evaluator, manager
	s.pipeline = pl
	s.started = true
	s.logger.Info(ctx, "newsbot service started",
		logger.String("source", src.BaseURL),
		logger.String("evaluator", ev.Kind),
		logger.String("manager", mgr.Kind),
		logger.Int("max_day", mgr.MaxDay),
	)
	return nil
}

// Stop releases the collaborators.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "newsbot service stopped")
}

// FetchTrending returns at most n trending candidates.
func (s *Service) FetchTrending(ctx context.Context, n int) ([]paper.Candidate, error) {
	s.mu.RLock()
	t := s.trending
	s.mu.RUnlock()
	if t == nil {
		return nil, ErrNotStarted
	}
	s.trendingRequests.Add(1)
	return t.FetchTrending(ctx, n)
}

// FetchDetail fetches one paper page, requiring the given fields.
func (s *Service) FetchDetail(ctx context.Context, path string, required ...detail.Field) (paper.Detail, error) {
	s.mu.RLock()
	d := s.details
	s.mu.RUnlock()
	if d == nil {
		return paper.Detail{}, ErrNotStarted
	}
	s.detailRequests.Add(1)
	return d.FetchDetail(ctx, path, required...)
}

// Run executes the daily pipeline once and remembers the latest report.
func (s *Service) Run(ctx context.Context) (paper.Report, error) {
	s.mu.RLock()
	p := s.pipeline
	s.mu.RUnlock()
	if p == nil {
		return paper.Report{}, ErrNotStarted
	}

	s.pipelineRuns.Add(1)
	report, err := p.Run(ctx)
	if err != nil {
		s.pipelineFailures.Add(1)
		return paper.Report{}, err
	}

	s.mu.Lock()
	s.lastReport = &report
	s.lastRunAt = s.now()
	s.mu.Unlock()
	return report, nil
}

// Evaluator returns the configured evaluator, nil before Start.
func (s *Service) Evaluator() scoring.Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator
}

// Manager returns the configured manager, nil before Start.
func (s *Service) Manager() selection.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":           s.started,
		"trending_requests": s.trendingRequests.Load(),
		"detail_requests":   s.detailRequests.Load(),
		"pipeline_runs":     s.pipelineRuns.Load(),
		"pipeline_failures": s.pipelineFailures.Load(),
		"evaluator":         s.cfg.Selection.Evaluator.Kind,
		"manager":           s.cfg.Selection.Manager.Kind,
		"max_day":           s.cfg.Selection.Manager.MaxDay,
	}
	if s.lastReport != nil {
		stats["last_paper"] = s.lastReport.Title
		stats["last_run_at"] = s.lastRunAt.UTC().Format(time.RFC3339)
	}
	return stats
}
