package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed email).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when a request carries no usable identity, or a
// login attempt presents the wrong credentials. Handlers map it to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the caller is identified but not allowed to
// act on the resource. Handlers map it to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrReferentialIntegrity is returned when a write references a row that does
// not exist, such as a booking for an unknown trail. Handlers map it to 400.
var ErrReferentialIntegrity = errors.New("referential integrity violation")

// ErrDuplicate is returned when a write collides with a uniqueness constraint.
// Handlers map it to 409.
var ErrDuplicate = errors.New("duplicate")

// ErrConflict is returned when a guarded status transition finds the record in
// a state other than the one it expected. Handlers map it to 409.
var ErrConflict = errors.New("conflict")

// ErrTimeout is returned when a persistence call exceeds its deadline.
// Handlers map it to 504.
var ErrTimeout = errors.New("timeout")

// ErrPersistence wraps any database failure the repo layer could not classify.
// Handlers map it to 500.
var ErrPersistence = errors.New("persistence error")

// MissingFieldsError lists every required field absent from a request.
// It unwraps to ErrValidation.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrValidation }

// TransitionError reports a guarded status change that did not apply because
// the booking was not in the expected state. It unwraps to ErrConflict.
type TransitionError struct {
	ID      int64
	Current Status
	Target  Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %d is %s, cannot become %s", e.ID, e.Current, e.Target)
}

func (e *TransitionError) Unwrap() error { return ErrConflict }

// Error carries a client-facing message alongside the sentinel it belongs to.
// Handlers show Message verbatim and pick the status code from Kind.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }
