package domain

import "errors"

// Sentinel error kinds. Services return errors built with E so that the
// HTTP layer can map a kind to a status code with errors.Is while the
// message stays a short, human-readable string.
var (
	ErrValidation   = errors.New("invalid input")
	ErrConflict     = errors.New("resource already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrUnavailable  = errors.New("service unavailable")
	ErrStorage      = errors.New("storage failure")
)

// Error pairs an error kind with a caller-facing message. Status optionally
// overrides the kind's default HTTP status; validation failures split
// between 400 and 422 depending on the check.
type Error struct {
	Kind    error
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// E builds a kinded error with the given message.
func E(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// EStatus builds a kinded error with an explicit HTTP status.
func EStatus(kind error, status int, message string) error {
	return &Error{Kind: kind, Message: message, Status: status}
}

// Status returns the explicit status of a kinded error, or 0 when the kind's
// default applies.
func Status(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Status
	}
	return 0
}

// ErrMessage returns the caller-facing message of a kinded error, or a
// generic fallback for unexpected internal errors so no detail leaks to
// clients.
func ErrMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}
