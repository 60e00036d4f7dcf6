package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/newsbot/internal/adapters/scraper/detail"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/pkg/logger"
)

// ScraperHandler serves the listing and detail scraping routes.
type ScraperHandler struct {
	trending     TrendingSource
	details      DetailSource
	defaultCount int
	log          logger.Logger
}

// NewScraperHandler creates a scraper handler. defaultCount is used when
// nb_papers is absent.
func NewScraperHandler(t TrendingSource, d DetailSource, defaultCount int, log logger.Logger) *ScraperHandler {
	return &ScraperHandler{trending: t, details: d, defaultCount: defaultCount, log: log.Named("scraper")}
}

// HandleTrending handles GET /paper/trending_papers?nb_papers=N.
func (h *ScraperHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	const op = "api.trending"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	if h.trending == nil {
		writeFailure(ctx, h.log, w, NewKind(op, ErrUnavailable))
		return
	}

	n := h.defaultCount
	if raw := r.URL.Query().Get("nb_papers"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeFailure(ctx, h.log, w, WrapKind(op, ErrBadRequest, err))
			return
		}
		n = v
	}

	cs, err := h.trending.FetchTrending(ctx, n)
	if err != nil {
		writeFailure(ctx, h.log, w, Wrap(op, err))
		return
	}
	if cs == nil {
		cs = []paper.Candidate{}
	}
	writeJSON(w, http.StatusOK, cs)
}

// HandleDetail handles POST /paper/?paper_url=paper/<slug>.
func (h *ScraperHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	const op = "api.detail"
	if r.URL.Path != "/paper/" {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()
	if h.details == nil {
		writeFailure(ctx, h.log, w, NewKind(op, ErrUnavailable))
		return
	}

	path := strings.TrimSpace(r.URL.Query().Get("paper_url"))
	if path == "" {
		writeFailure(ctx, h.log, w, WrapKind(op, ErrBadRequest, detail.ErrInvalidPath))
		return
	}

	// The pipeline summarizes the PDF, so a detail without it is useless.
	d, err := h.details.FetchDetail(ctx, path, detail.FieldPDF)
	if err != nil {
		writeFailure(ctx, h.log, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}
