package httpapi

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error class. Each code maps to exactly one HTTP
// status so handlers never pick statuses ad hoc.
type Code string

const (
	CodeValidation     Code = "validation"
	CodeAuthentication Code = "authentication"
	CodePermission     Code = "permission"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodePrecondition   Code = "precondition"
	CodeInternal       Code = "internal"
)

// Error is the domain error type carried from services up to handlers.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code so services can use sentinel-style comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(message string) *Error     { return New(CodeValidation, message) }
func Authentication(message string) *Error { return New(CodeAuthentication, message) }
func Permission(message string) *Error     { return New(CodePermission, message) }
func NotFound(message string) *Error       { return New(CodeNotFound, message) }
func Conflict(message string) *Error       { return New(CodeConflict, message) }
func Precondition(message string) *Error   { return New(CodePrecondition, message) }

// Internal wraps a backend failure. The cause stays server-side; clients only
// ever see the generic message.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Cause: cause}
}

// Status returns the HTTP status for a code.
func (c Code) Status() int {
	switch c {
	case CodeValidation, CodePrecondition:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodePermission:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
