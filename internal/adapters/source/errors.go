package source

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable covers transport failures and non-2xx answers from the site.
var ErrSourceUnavailable = errors.New("source unavailable")

// StatusError is a non-2xx answer. It matches ErrSourceUnavailable.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status code %d", ErrSourceUnavailable, e.URL, e.Code)
}

// Unwrap makes errors.Is(err, ErrSourceUnavailable) hold.
func (e *StatusError) Unwrap() error { return ErrSourceUnavailable }
