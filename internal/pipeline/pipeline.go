// Package pipeline runs the daily paper flow: trending listing, best pick,
// detail fetch and summary, each against its own service.
package pipeline

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/newsbot/internal/adapters/remote"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/pkg/logger"
	"github.com/okian/newsbot/pkg/metrics"
)

// Defaults match the collaborator services' expectations.
const (
	defaultNbPapers         = 20
	defaultListingTimeout   = 10 * time.Second
	defaultSelectionTimeout = 10 * time.Second
	defaultDetailTimeout    = 10 * time.Second
	defaultSummarizeTimeout = 600 * time.Second
)

// Timeouts bound each stage.
type Timeouts struct {
	Listing   time.Duration
	Selection time.Duration
	Detail    time.Duration
	Summarize time.Duration
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithNbPapers sets how many trending papers are requested.
func WithNbPapers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.nbPapers = n
		}
	}
}

// WithTimeouts overrides the non-zero stage timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(p *Pipeline) {
		if t.Listing > 0 {
			p.timeouts.Listing = t.Listing
		}
		if t.Selection > 0 {
			p.timeouts.Selection = t.Selection
		}
		if t.Detail > 0 {
			p.timeouts.Detail = t.Detail
		}
		if t.Summarize > 0 {
			p.timeouts.Summarize = t.Summarize
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// Pipeline sequences the four service calls. It holds no per-run state and
// is safe for concurrent runs.
type Pipeline struct {
	listing    remote.Listing
	selection  remote.Selection
	details    remote.Details
	summarizer remote.Summarizer

	nbPapers int
	timeouts Timeouts
	log      logger.Logger
}

// New creates a pipeline over its four collaborators.
func New(l remote.Listing, s remote.Selection, d remote.Details, sum remote.Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		listing:    l,
		selection:  s,
		details:    d,
		summarizer: sum,
		nbPapers:   defaultNbPapers,
		timeouts: Timeouts{
			Listing:   defaultListingTimeout,
			Selection: defaultSelectionTimeout,
			Detail:    defaultDetailTimeout,
			Summarize: defaultSummarizeTimeout,
		},
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one pipeline run. The first failing stage aborts the run with a *StageError.
func (p *Pipeline) Run(ctx context.Context) (paper.Report, error) {
	runID := uuid.NewString()
	log := p.log.With(logger.String("run_id", runID))
	start := time.Now()
	log.Info(ctx, "pipeline run started", logger.Int("nb_papers", p.nbPapers))

	report, err := p.run(ctx, log)
	if err != nil {
		outcome := "error"
		var se *StageError
		if errors.As(err, &se) {
			outcome = se.Stage
		}
		metrics.RecordPipelineRun(outcome)
		log.Error(ctx, "pipeline run failed", logger.Error(err), logger.Duration("took", time.Since(start)))
		return paper.Report{}, err
	}

	metrics.RecordPipelineRun("ok")
	log.Info(ctx, "pipeline run finished",
		logger.String("title", report.Title), logger.Duration("took", time.Since(start)))
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, log logger.Logger) (paper.Report, error) {
	var candidates []paper.Candidate
	err := p.stage(ctx, log, StageListing, strconv.Itoa(p.nbPapers), p.timeouts.Listing, func(ctx context.Context) (err error) {
		candidates, err = p.listing.Trending(ctx, p.nbPapers)
		return err
	})
	if err != nil {
		return paper.Report{}, err
	}

	var best paper.Candidate
	err = p.stage(ctx, log, StageSelection, strconv.Itoa(len(candidates))+" candidates", p.timeouts.Selection, func(ctx context.Context) (err error) {
		best, err = p.selection.Best(ctx, candidates)
		return err
	})
	if err != nil {
		return paper.Report{}, err
	}

	var d paper.Detail
	err = p.stage(ctx, log, StageDetail, best.Path, p.timeouts.Detail, func(ctx context.Context) (err error) {
		d, err = p.details.Detail(ctx, best.Path)
		return err
	})
	if err != nil {
		return paper.Report{}, err
	}

	var summary string
	err = p.stage(ctx, log, StageSummarize, d.PDFURL, p.timeouts.Summarize, func(ctx context.Context) (err error) {
		summary, err = p.summarizer.Summarize(ctx, d.PDFURL)
		return err
	})
	if err != nil {
		return paper.Report{}, err
	}

	return paper.NewReport(best, d, summary), nil
}

// stage runs fn under its own timeout and records its duration.
func (p *Pipeline) stage(ctx context.Context, log logger.Logger, name, id string, timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	took := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordPipelineStage(name, outcome, float64(took.Microseconds())/1000)

	if err != nil {
		return &StageError{Stage: name, Identifier: id, Err: err}
	}
	log.Info(ctx, "pipeline stage done",
		logger.String("stage", name), logger.String("input", id), logger.Duration("took", took))
	return nil
}
