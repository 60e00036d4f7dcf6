package paper

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for paper records.
var (
	// ErrAttributeNotFound reports a field that could not be extracted or is absent.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrFutureDate reports a publication date later than the evaluation instant.
	ErrFutureDate = errors.New("publication date is in the future")
)

// AttributeError names the attribute that is missing. It matches ErrAttributeNotFound.
type AttributeError struct {
	Attribute string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAttributeNotFound, e.Attribute)
}

// Unwrap makes errors.Is(err, ErrAttributeNotFound) hold.
func (e *AttributeError) Unwrap() error { return ErrAttributeNotFound }

// MissingAttribute returns an *AttributeError for name.
func MissingAttribute(name string) error {
	return &AttributeError{Attribute: name}
}
