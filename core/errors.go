package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthenticated signals a 401/403 from the backend: the session is no
	// longer valid and the caller must abandon page state and go to login.
	ErrUnauthenticated = errors.New("user not authenticated")

	// ErrUnavailable signals a transport failure or a non-JSON response:
	// the backend process is likely not running.
	ErrUnavailable = errors.New("backend unavailable; is the server running?")
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// APIError is a business-rule rejection from the backend (4xx with an
// {error: ...} body). Message is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func NewAPIError(code int, msg string) error {
	return &APIError{StatusCode: code, Message: msg}
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("request failed with status %d", err.StatusCode)
	}
	return err.Message
}

// IsUnauthenticated reports whether err (or its cause) is a 401/403 class error.
func IsUnauthenticated(err error) bool {
	return errors.Cause(err) == ErrUnauthenticated
}

// IsUnavailable reports whether err (or its cause) is a connectivity class error.
func IsUnavailable(err error) bool {
	return errors.Cause(err) == ErrUnavailable
}
