// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/newsbot/internal/adapters/scraper/detail"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/domain/scoring"
	"github.com/okian/newsbot/internal/domain/selection"
	"github.com/okian/newsbot/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 4 << 20

// TrendingSource lists trending candidates.
type TrendingSource interface {
	FetchTrending(ctx context.Context, maxCount int) ([]paper.Candidate, error)
}

// DetailSource fetches the detail record of a paper path.
type DetailSource interface {
	FetchDetail(ctx context.Context, path string, required ...detail.Field) (paper.Detail, error)
}

// Runner runs the daily pipeline once.
type Runner interface {
	Run(ctx context.Context) (paper.Report, error)
}

// Dependencies required by HTTP handlers. A nil role answers 503.
type Dependencies struct {
	Trending  TrendingSource
	Details   DetailSource
	Evaluator scoring.Evaluator
	Manager   selection.Manager
	Pipeline  Runner
	Stats     StatsProvider
	// DefaultCount is used when nb_papers is absent.
	DefaultCount int
	Logger       logger.Logger
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	scraperHandler   *ScraperHandler
	selectionHandler *SelectionHandler
	pipelineHandler  *PipelineHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps.Stats),
		scraperHandler:   NewScraperHandler(deps.Trending, deps.Details, deps.DefaultCount, deps.Logger),
		selectionHandler: NewSelectionHandler(deps.Evaluator, deps.Manager, deps.Logger),
		pipelineHandler:  NewPipelineHandler(deps.Pipeline, deps.Logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/paper/trending_papers", MetricsMiddleware(s.scraperHandler.HandleTrending, "trending"))
	mux.HandleFunc("/trending_papers", MetricsMiddleware(s.scraperHandler.HandleTrending, "trending"))
	mux.HandleFunc("/paper/", MetricsMiddleware(s.scraperHandler.HandleDetail, "detail"))

	mux.HandleFunc("/selection/ranker", MetricsMiddleware(s.selectionHandler.HandleRanker, "ranker"))
	mux.HandleFunc("/selection/validator", MetricsMiddleware(s.selectionHandler.HandleValidator, "validator"))
	mux.HandleFunc("/selection/best", MetricsMiddleware(s.selectionHandler.HandleBest, "best"))
	mux.HandleFunc("/selection/scores", MetricsMiddleware(s.selectionHandler.HandleScores, "scores"))

	mux.HandleFunc("/daily_paper", MetricsMiddleware(s.pipelineHandler.HandleDailyPaper, "daily_paper"))
	mux.HandleFunc("/", s.healthHandler.HandleRoot)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes the matching error response.
func writeFailure(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	} else {
		log.Debug(ctx, "request rejected", logger.String("code", code), logger.Error(err))
	}
	writeError(w, status, code, err)
}

// allowMethod answers 405 and returns false when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	return false
}

// decodeCandidates reads a JSON array of candidates from the request body.
func decodeCandidates(op string, r *http.Request) ([]paper.Candidate, error) {
	var cs []paper.Candidate
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&cs); err != nil {
		return nil, WrapKind(op, ErrBadRequest, fmt.Errorf("decode candidates: %w", err))
	}
	if dec.More() {
		return nil, WrapKind(op, ErrBadRequest, errors.New("trailing data after candidates"))
	}
	return cs, nil
}
