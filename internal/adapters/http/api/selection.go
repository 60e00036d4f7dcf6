package api

import (
	"net/http"

	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/domain/scoring"
	"github.com/okian/newsbot/internal/domain/selection"
	"github.com/okian/newsbot/pkg/logger"
)

// SelectionHandler serves the selection routes over a Manager and its Evaluator.
type SelectionHandler struct {
	evaluator scoring.Evaluator
	manager   selection.Manager
	log       logger.Logger
}

// NewSelectionHandler creates a selection handler.
func NewSelectionHandler(ev scoring.Evaluator, m selection.Manager, log logger.Logger) *SelectionHandler {
	return &SelectionHandler{evaluator: ev, manager: m, log: log.Named("selection")}
}

// HandleRanker handles POST /selection/ranker.
func (h *SelectionHandler) HandleRanker(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, "api.ranker", h.rank)
}

// HandleValidator handles POST /selection/validator.
func (h *SelectionHandler) HandleValidator(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, "api.validator", h.validate)
}

// HandleBest handles POST /selection/best.
func (h *SelectionHandler) HandleBest(w http.ResponseWriter, r *http.Request) {
	const op = "api.best"
	cs, ok := h.read(w, r, op, h.manager != nil)
	if !ok {
		return
	}
	best, err := h.manager.BestPaper(cs)
	if err != nil {
		writeFailure(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, best)
}

// HandleScores handles POST /selection/scores.
func (h *SelectionHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.scores"
	cs, ok := h.read(w, r, op, h.evaluator != nil)
	if !ok {
		return
	}
	scores, err := h.evaluator.EvaluateBatch(cs)
	if err != nil {
		writeFailure(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	if scores == nil {
		scores = []float64{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *SelectionHandler) rank(cs []paper.Candidate) ([]paper.Candidate, error) {
	return h.manager.RankPapers(cs)
}

func (h *SelectionHandler) validate(cs []paper.Candidate) ([]paper.Candidate, error) {
	return h.manager.ValidPapers(cs)
}

func (h *SelectionHandler) serveList(w http.ResponseWriter, r *http.Request, op string,
	fn func([]paper.Candidate) ([]paper.Candidate, error),
) {
	cs, ok := h.read(w, r, op, h.manager != nil)
	if !ok {
		return
	}
	out, err := fn(cs)
	if err != nil {
		writeFailure(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	if out == nil {
		out = []paper.Candidate{}
	}
	writeJSON(w, http.StatusOK, out)
}

// read checks method and availability, then decodes the candidate array.
func (h *SelectionHandler) read(w http.ResponseWriter, r *http.Request, op string, available bool) ([]paper.Candidate, bool) {
	if !allowMethod(w, r, http.MethodPost) {
		return nil, false
	}
	if !available {
		writeFailure(r.Context(), h.log, w, NewKind(op, ErrUnavailable))
		return nil, false
	}
	cs, err := decodeCandidates(op, r)
	if err != nil {
		writeFailure(r.Context(), h.log, w, err)
		return nil, false
	}
	return cs, true
}
