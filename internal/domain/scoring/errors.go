package scoring

import "errors"

// Sentinel error kinds for scoring.
var (
	// ErrUnknownVariant is returned when no evaluator is registered for a kind.
	ErrUnknownVariant = errors.New("unknown evaluator kind")
	// ErrInvalidParams is returned when evaluator parameters are out of range.
	ErrInvalidParams = errors.New("invalid evaluator parameters")
)
