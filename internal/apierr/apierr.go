// Package apierr defines the classified failures that request handling can
// raise and the single mapping from a failure to its response body.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation    Kind = "ValidationFailure"
	KindMalformed     Kind = "MalformedInput"
	KindUnauthorized  Kind = "Unauthorized"
	KindForbidden     Kind = "Forbidden"
	KindNotFound      Kind = "ResourceNotFound"
	KindRouteNotFound Kind = "RouteNotFound"
	KindInternal      Kind = "InternalFailure"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindMalformed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindRouteNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Label is the human-facing category written to the "error" field.
func (k Kind) Label() string {
	switch k {
	case KindValidation:
		return "Validation Error"
	case KindMalformed:
		return "Bad Request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "Not Found"
	case KindRouteNotFound:
		return "Route not found"
	default:
		return "Internal Server Error"
	}
}

// Error is a classified failure.
type Error struct {
	Kind       Kind
	Message    string
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code of the failure.
func (e *Error) Status() int { return e.Kind.Status() }

// Body is the normalized failure payload.
type Body struct {
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	StatusCode int      `json:"statusCode"`
	Errors     []string `json:"errors,omitempty"`
}

// Body renders the failure for the client. Internal failures never carry the
// wrapped error's text.
func (e *Error) Body() Body {
	b := Body{
		Error:      e.Kind.Label(),
		Message:    e.Message,
		StatusCode: e.Status(),
	}
	if e.Kind == KindValidation {
		b.Errors = append([]string{}, e.Violations...)
	}
	return b
}

// Validation reports a non-empty violation list.
func Validation(violations []string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Violations: violations}
}

// Malformed reports a body that could not be materialized.
func Malformed(err error) *Error {
	return &Error{Kind: KindMalformed, Message: "Invalid JSON in request body", Err: err}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound reports a failed lookup of resource, e.g. NotFound("Product").
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// NotFoundf reports a failed lookup with a custom message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// RouteNotFound reports a path/method with no matching operation.
func RouteNotFound(path string) *Error {
	return &Error{
		Kind:    KindRouteNotFound,
		Message: fmt.Sprintf("The route %s does not exist on this server", path),
	}
}

// Internal wraps an unclassified failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred", Err: err}
}

// From classifies err. A nil error yields nil; anything that is not already an
// *Error becomes an internal failure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
