package selection

import "errors"

// Sentinel error kinds for selection.
var (
	// ErrNoCandidates is returned when a best pick is requested from nothing scorable.
	ErrNoCandidates = errors.New("no candidates to select from")
	// ErrUnknownVariant is returned when no manager is registered for a kind.
	ErrUnknownVariant = errors.New("unknown manager kind")
	// ErrInvalidParams is returned when manager parameters are out of range.
	ErrInvalidParams = errors.New("invalid manager parameters")
)
