// Package apperr models the four-kind error taxonomy the HTTP layer maps to
// status codes and a uniform JSON envelope.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies an Error for status-code mapping.
type Kind int

const (
	// Unknown covers store errors, serialization failures and anything
	// else unanticipated; the response body stays generic while the
	// underlying cause is logged in full.
	Unknown Kind = iota
	// Validation marks input that failed a declarative constraint.
	Validation
	// NotFound marks a lookup that produced no row.
	NotFound
	// Auth marks a missing, malformed, expired or already-consumed
	// publish token.
	Auth
)

// Error is the application-level error type every handler returns.
type Error struct {
	Kind    Kind
	Name    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// StatusCode returns the HTTP status the error's Kind maps to.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Auth:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Validationf builds a Validation-kind error with a formatted message.
func Validationf(name, format string, args ...any) *Error {
	return &Error{Kind: Validation, Name: name, Message: fmt.Sprintf(format, args...)}
}

// NotFoundErr builds a NotFound-kind error.
func NotFoundErr(name, message string) *Error {
	return &Error{Kind: NotFound, Name: name, Message: message}
}

// IncorrectPublishToken builds the Auth-kind error spec.md §7 names.
func IncorrectPublishToken() *Error {
	return &Error{Kind: Auth, Name: "IncorrectPublishTokenError", Message: "incorrect or expired publish token"}
}

// Wrap builds an Unknown-kind error, preserving cause for logging while
// keeping the outward message generic.
func Wrap(cause error) *Error {
	return &Error{Kind: Unknown, Name: "UnknownError", Message: "an unknown error occurred", Cause: cause}
}

// Envelope is the camelCase JSON body every mapped error renders as.
type Envelope struct {
	Message    string `json:"message"`
	Name       string `json:"name"`
	StatusCode int    `json:"statusCode"`
}

// ToEnvelope renders err as the response envelope. Non-*Error causes are
// treated as Unknown.
func ToEnvelope(err error) Envelope {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Wrap(err)
	}
	name := appErr.Name
	if name == "" {
		name = "UnknownError"
	}
	return Envelope{
		Message:    appErr.Message,
		Name:       name,
		StatusCode: appErr.StatusCode(),
	}
}
