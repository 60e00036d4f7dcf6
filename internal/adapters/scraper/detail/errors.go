package detail

import (
	"errors"
	"strings"
)

// Sentinel error kinds for the detail scraper.
var (
	ErrInvalidPath   = errors.New("paper path must start with paper/")
	ErrPaperNotFound = errors.New("paper not found")
)

// FieldErrors holds one extraction error per field that could not be read.
type FieldErrors map[Field]error

// Err joins the errors of the given fields, or of all fields when none are named.
func (fe FieldErrors) Err(fields ...Field) error {
	if len(fields) == 0 {
		fields = AllFields
	}
	var errs []error
	for _, f := range fields {
		if err, ok := fe[f]; ok {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range AllFields {
		if err, ok := fe[f]; ok {
			parts = append(parts, err.Error())
		}
	}
	return strings.Join(parts, "; ")
}
