package remote

import (
	"errors"
	"fmt"
)

// ErrRemote is returned for transport failures and non-2xx answers from a collaborator service.
var ErrRemote = errors.New("remote service failed")

// StatusError is a non-2xx answer from a collaborator service.
type StatusError struct {
	Service string
	URL     string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %s %s returned status code %d", ErrRemote, e.Service, e.URL, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrRemote) hold.
func (e *StatusError) Unwrap() error { return ErrRemote }
