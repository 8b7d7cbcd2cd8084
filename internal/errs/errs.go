// Package errs defines the error shape every endpoint answers with.
//
// The JSON body always carries a single human readable "error" string and,
// for validation failures, the list of rejected fields. The underlying cause
// is logged by the caller and never sent to the client.
package errs

import (
	"net/http"

	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

type FieldError = schema.FieldError

type HTTPError struct {
	Status  int          `json:"-"`
	Message string       `json:"error"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewBadRequestError(message string, fields []FieldError) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: message,
		Errors:  fields,
	}
}

func NewUnauthorizedError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusUnauthorized,
		Message: "unauthorized",
	}
}

// NewForbiddenError is the generic "operation failed" answer: constraint
// violations, connectivity problems and any other database error.
func NewForbiddenError(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusForbidden,
		Message: message,
	}
}

func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Message: message,
	}
}

func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
	}
}
