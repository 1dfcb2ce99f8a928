// Package apperror defines the typed business error every service operation fails with.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

const (
	fallbackNotFound   = "Resource not found"
	fallbackValidation = "Invalid request"
	fallbackInternal   = "Internal server error"
)

// Error carries a numeric code, a domain message and a generic fallback message.
type Error struct {
	Kind     Kind
	Code     int
	Message  string
	Fallback string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: message, Fallback: fallbackNotFound}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: http.StatusBadRequest, Message: message, Fallback: fallbackValidation}
}

func Internal(err error) *Error {
	message := fallbackInternal
	if err != nil {
		message = err.Error()
	}
	return &Error{Kind: KindInternal, Code: http.StatusInternalServerError, Message: message, Fallback: fallbackInternal, Err: err}
}

// Wrap passes typed errors through unchanged and classifies anything else as Internal.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

func kindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return -1
}
