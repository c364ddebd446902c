package core

import "github.com/pkg/errors"

// FieldError attaches an error message to a specific input field, e.g.
// "email" on a duplicate registration.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a recoverable precondition failure: duplicate
// application, closed position, interest without a positive eligibility
// verdict, a department that already has a coordinator. The API renders
// it as a 400 with an advisory message and no state is mutated.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an integrity failure the portal cannot serve through,
// caught by the HTTP error handler to stop the server gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
