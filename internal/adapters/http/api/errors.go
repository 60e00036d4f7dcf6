package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/newsbot/internal/adapters/remote"
	"github.com/okian/newsbot/internal/adapters/scraper/detail"
	"github.com/okian/newsbot/internal/adapters/scraper/trending"
	"github.com/okian/newsbot/internal/adapters/source"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/domain/scoring"
	"github.com/okian/newsbot/internal/domain/selection"
	"github.com/okian/newsbot/internal/pipeline"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("service not configured")
)

// OpError attaches the failing operation and an error kind to a cause.
// errors.Is matches both the kind and the cause.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *OpError) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// WrapKind annotates err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// NewKind returns an error of kind for op with no further cause.
func NewKind(op string, kind error) error {
	return &OpError{Op: op, Kind: kind}
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	var stageErr *pipeline.StageError
	switch {
	case errors.As(err, &stageErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, "stage_timeout"
		}
		return http.StatusBadGateway, "stage_failed"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, trending.ErrInvalidCount),
		errors.Is(err, detail.ErrInvalidPath),
		errors.Is(err, scoring.ErrUnknownVariant),
		errors.Is(err, scoring.ErrInvalidParams),
		errors.Is(err, selection.ErrUnknownVariant),
		errors.Is(err, selection.ErrInvalidParams):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, detail.ErrPaperNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, paper.ErrFutureDate):
		return http.StatusUnprocessableEntity, "future_date"
	case errors.Is(err, paper.ErrAttributeNotFound):
		return http.StatusUnprocessableEntity, "attribute_not_found"
	case errors.Is(err, selection.ErrNoCandidates):
		return http.StatusUnprocessableEntity, "no_candidates"
	case errors.Is(err, source.ErrSourceUnavailable), errors.Is(err, remote.ErrRemote):
		return http.StatusBadGateway, "source_unavailable"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
