package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidLogin      = errors.New("invalid login attempt")
	ErrConflict          = errors.New("conflict")
)

// ErrorKind classifies an error for the HTTP layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindForbidden
	// KindValidation covers validation failures, duplicates and write conflicts.
	// These are reported to the user as a flash message, not as an error page.
	KindValidation
)

// KindOf reports the kind of err by matching the sentinels above.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrInvalidLogin),
		errors.Is(err, ErrConflict):
		return KindValidation
	default:
		return KindInternal
	}
}
