package trending

import "errors"

var (
	// ErrInvalidCount is returned for a negative maximum count.
	ErrInvalidCount = errors.New("invalid paper count")
	// ErrNegativeValue is returned when a card carries a negative star figure.
	ErrNegativeValue = errors.New("negative star value")
)
