// Package apperr holds the error kinds surfaced by services. Callers wrap
// them with fmt.Errorf("...: %w", apperr.ErrX) and match with errors.Is.
package apperr

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

// Message strips the kind suffix so "meal not found: not found" renders as
// "meal not found" in responses.
func Message(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrInvalidRequest, ErrNotFound, ErrUnauthenticated, ErrForbidden, ErrConflict} {
		suffix := ": " + kind.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	return msg
}
