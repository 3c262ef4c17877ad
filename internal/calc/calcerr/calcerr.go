// Package calcerr holds the error kinds shared by the calculators.
package calcerr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation marks malformed input: a primitive that must not be built.
	ErrValidation = errors.New("validation error")
	// ErrGeometry marks input that is well formed but physically impossible,
	// e.g. CT outer diameter not fitting inside the casing.
	ErrGeometry = errors.New("geometry error")
	// ErrNotFound marks a depth lookup that hit missing data.
	ErrNotFound = errors.New("not found")
)

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func Geometry(format string, args ...any) error {
	return wrap(ErrGeometry, format, args...)
}

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

// Status maps an error to the HTTP status a handler should answer with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGeometry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
