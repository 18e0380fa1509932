package dune

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a client failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "authentication"
	KindNotFound   Kind = "not_found"
	KindRateLimit  Kind = "rate_limit"
	KindServer     Kind = "server"
	KindConnection Kind = "connection"
)

// Error is the typed failure returned by Client methods and request
// validation. StatusCode is zero for failures raised outside an HTTP
// exchange (validation, connection).
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("dune: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("dune: %s: %s", e.Kind, e.Message)
}

// NewValidationError builds a KindValidation error. Request Validate methods
// and tool argument coercion use it so bad input fails before any network call.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func connectionErr(err error) *Error {
	return &Error{Kind: KindConnection, Message: err.Error()}
}

// statusErr maps an upstream HTTP status to a typed failure. 400/422 count as
// validation: the service rejected the request shape, not the transport.
func statusErr(code int, message string) *Error {
	var kind Kind
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = KindAuth
	case code == http.StatusNotFound:
		kind = KindNotFound
	case code == http.StatusTooManyRequests:
		kind = KindRateLimit
	case code >= 500:
		kind = KindServer
	default:
		kind = KindValidation
	}
	return &Error{Kind: kind, StatusCode: code, Message: message}
}

// KindOf returns the Kind of err, or "" when err is not a dune error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a dune error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
