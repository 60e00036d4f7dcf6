// Package scoring turns a paper candidate into a popularity score decayed by age.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/pkg/logger"
	"github.com/okian/newsbot/pkg/metrics"
)

// Default weights: no decay, stars and stars per hour count equally.
const (
	defaultStarsPerHourWeight = 1.0
	defaultStarsWeight        = 1.0
	defaultDateDiffWeight     = 1.0
)

// Evaluator scores candidates. Implementations must not assume a caller.
type Evaluator interface {
	// Evaluate scores one candidate. Missing fields yield paper.ErrAttributeNotFound
	// and a future publication date yields paper.ErrFutureDate.
	Evaluate(c paper.Candidate) (float64, error)
	// EvaluateBatch scores the candidates that can be scored, in input order.
	// Candidates with missing fields are skipped; a future date aborts the batch.
	EvaluateBatch(cs []paper.Candidate) ([]float64, error)
}

// Option applies a configuration option to the SimpleEvaluator.
type Option func(*SimpleEvaluator)

// WithWeights sets the three formula weights. Negative weights and a
// non-positive decay are ignored here; NewEvaluator rejects them with
// ErrInvalidParams.
func WithWeights(starsPerHour, stars, dateDiff float64) Option {
	return func(e *SimpleEvaluator) {
		if starsPerHour >= 0 {
			e.starsPerHourWeight = starsPerHour
		}
		if stars >= 0 {
			e.starsWeight = stars
		}
		if dateDiff > 0 {
			e.dateDiffWeight = dateDiff
		}
	}
}

// WithNow replaces the clock used for the age term.
func WithNow(now func() time.Time) Option {
	return func(e *SimpleEvaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for skipped candidates.
func WithLogger(l logger.Logger) Option {
	return func(e *SimpleEvaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// SimpleEvaluator scores
//
//	(starsPerHourWeight*starsPerHour + starsWeight*stars) * dateDiffWeight^daysSince(date)
type SimpleEvaluator struct {
	starsPerHourWeight float64
	starsWeight        float64
	dateDiffWeight     float64

	now func() time.Time
	log logger.Logger
}

// NewSimpleEvaluator creates an evaluator with default weights of 1.0.
func NewSimpleEvaluator(opts ...Option) *SimpleEvaluator {
	e := &SimpleEvaluator{
		starsPerHourWeight: defaultStarsPerHourWeight,
		starsWeight:        defaultStarsWeight,
		dateDiffWeight:     defaultDateDiffWeight,
		now:                time.Now,
		log:                logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the score of c.
func (e *SimpleEvaluator) Evaluate(c paper.Candidate) (float64, error) {
	if c.StarsPerHour == nil {
		return 0, paper.MissingAttribute("Stars per hour")
	}
	if c.Stars == nil {
		return 0, paper.MissingAttribute("Stars")
	}
	published, err := c.Published()
	if err != nil {
		return 0, err
	}
	days, err := paper.DaysSince(e.now().UTC(), published)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", c.Title, err)
	}

	sph, stars := *c.StarsPerHour, float64(*c.Stars)
	score := e.starsPerHourWeight*sph + e.starsWeight*stars
	return score * math.Pow(e.dateDiffWeight, float64(days)), nil
}

// EvaluateBatch scores cs, skipping candidates with missing fields.
func (e *SimpleEvaluator) EvaluateBatch(cs []paper.Candidate) ([]float64, error) {
	out := make([]float64, 0, len(cs))
	for _, c := range cs {
		score, err := e.Evaluate(c)
		switch {
		case err == nil:
			metrics.RecordEvaluation("scored")
			out = append(out, score)
		case errors.Is(err, paper.ErrAttributeNotFound):
			metrics.RecordEvaluation("skipped")
			e.log.Warn(context.Background(), "paper does not have all the required attributes",
				logger.String("title", c.Title),
				logger.Error(err),
			)
		default:
			return nil, err
		}
	}
	return out, nil
}
