package api

import (
	"net/http"

	"github.com/okian/newsbot/pkg/logger"
)

// PipelineHandler runs the daily pipeline on demand.
type PipelineHandler struct {
	runner Runner
	log    logger.Logger
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(runner Runner, log logger.Logger) *PipelineHandler {
	return &PipelineHandler{runner: runner, log: log.Named("pipeline")}
}

// HandleDailyPaper handles GET /daily_paper.
func (h *PipelineHandler) HandleDailyPaper(w http.ResponseWriter, r *http.Request) {
	const op = "api.daily_paper"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if h.runner == nil {
		writeFailure(r.Context(), h.log, w, NewKind(op, ErrUnavailable))
		return
	}
	report, err := h.runner.Run(r.Context())
	if err != nil {
		writeFailure(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
