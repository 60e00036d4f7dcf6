// Package selection filters, ranks and picks trending paper candidates.
package selection

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/domain/scoring"
	"github.com/okian/newsbot/pkg/logger"
	"github.com/okian/newsbot/pkg/metrics"
)

const defaultMaxDay = 14

// Manager selects papers using an evaluation policy it does not know the formula of.
type Manager interface {
	// ValidPapers keeps the candidates inside the validity window.
	ValidPapers(cs []paper.Candidate) ([]paper.Candidate, error)
	// RankPapers orders candidates by ascending score, stable on ties.
	// Candidates the evaluator cannot score (paper.ErrAttributeNotFound)
	// are omitted, so the result is a permutation of the scorable subset
	// and may be shorter than the input. Any other evaluation error aborts.
	RankPapers(cs []paper.Candidate) ([]paper.Candidate, error)
	// BestPaper returns the maximum-score candidate, the first one on ties.
	BestPaper(cs []paper.Candidate) (paper.Candidate, error)
}

// Option applies a configuration option to the SimpleManager.
type Option func(*SimpleManager)

// WithMaxDay sets the validity window in days. Negative values are ignored
// here; NewManager rejects them with ErrInvalidParams.
func WithMaxDay(days int) Option {
	return func(m *SimpleManager) {
		if days >= 0 {
			m.maxDay = days
		}
	}
}

// WithNow replaces the clock used for the validity window.
func WithNow(now func() time.Time) Option {
	return func(m *SimpleManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger used for dropped candidates.
func WithLogger(l logger.Logger) Option {
	return func(m *SimpleManager) {
		if l != nil {
			m.log = l
		}
	}
}

// SimpleManager filters on age and selects on the evaluator's score.
type SimpleManager struct {
	evaluator scoring.Evaluator
	maxDay    int
	now       func() time.Time
	log       logger.Logger
}

// NewSimpleManager creates a manager over ev with a 14 day window.
func NewSimpleManager(ev scoring.Evaluator, opts ...Option) *SimpleManager {
	m := &SimpleManager{
		evaluator: ev,
		maxDay:    defaultMaxDay,
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxDay returns the validity window in days.
func (m *SimpleManager) MaxDay() int { return m.maxDay }

// ValidPapers keeps candidates at most maxDay days old. Candidates without a
// date are dropped; a future date is an error.
func (m *SimpleManager) ValidPapers(cs []paper.Candidate) ([]paper.Candidate, error) {
	now := m.now().UTC()
	out := make([]paper.Candidate, 0, len(cs))
	for _, c := range cs {
		published, err := c.Published()
		if err != nil {
			m.log.Warn(context.Background(), "dropping paper without publication date",
				logger.String("title", c.Title))
			continue
		}
		age, err := paper.DaysSince(now, published)
		if err != nil {
			metrics.RecordSelection("validate", "error")
			return nil, err
		}
		if age <= m.maxDay {
			out = append(out, c)
		}
	}
	metrics.RecordSelection("validate", "ok")
	return out, nil
}

// RankPapers returns the scorable candidates by ascending score. Candidates
// missing a scoring attribute are dropped, not appended at either end.
func (m *SimpleManager) RankPapers(cs []paper.Candidate) ([]paper.Candidate, error) {
	scored, err := m.score(cs)
	if err != nil {
		metrics.RecordSelection("rank", "error")
		return nil, err
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score < scored[j].score })

	out := make([]paper.Candidate, len(scored))
	for i, s := range scored {
		out[i] = s.candidate
	}
	metrics.RecordSelection("rank", "ok")
	return out, nil
}

// BestPaper returns the first candidate with the maximum score.
func (m *SimpleManager) BestPaper(cs []paper.Candidate) (paper.Candidate, error) {
	scored, err := m.score(cs)
	if err != nil {
		metrics.RecordSelection("best", "error")
		return paper.Candidate{}, err
	}
	if len(scored) == 0 {
		metrics.RecordSelection("best", "empty")
		return paper.Candidate{}, ErrNoCandidates
	}
	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].score > scored[best].score {
			best = i
		}
	}
	metrics.RecordSelection("best", "ok")
	return scored[best].candidate, nil
}

type scoredCandidate struct {
	candidate paper.Candidate
	score     float64
}

// score evaluates each candidate once, keeping score and candidate together.
// Candidates the evaluator cannot score are skipped.
func (m *SimpleManager) score(cs []paper.Candidate) ([]scoredCandidate, error) {
	out := make([]scoredCandidate, 0, len(cs))
	for _, c := range cs {
		s, err := m.evaluator.Evaluate(c)
		if errors.Is(err, paper.ErrAttributeNotFound) {
			m.log.Warn(context.Background(), "skipping unscorable paper",
				logger.String("title", c.Title), logger.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, scoredCandidate{candidate: c, score: s})
	}
	return out, nil
}
