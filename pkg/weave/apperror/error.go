// Package apperror defines the closed set of failure kinds the framework
// core can raise and the status-code mapping each one carries.
package apperror

import (
	"fmt"
	"net/http"
)

// Kind is the closed taxonomy of failures a handler, extractor, guard,
// interceptor or middleware can surface. It is never extended at runtime;
// Custom carries its own status for the one genuinely open case.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindBadRequest         Kind = "bad_request"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindPayloadTooLarge    Kind = "payload_too_large"
	KindConflict           Kind = "conflict"
	KindGone               Kind = "gone"
	KindUnprocessable      Kind = "unprocessable"
	KindTooManyRequests    Kind = "too_many_requests"
	KindServiceUnavailable Kind = "service_unavailable"
	KindInternal           Kind = "internal"
	KindCustom             Kind = "custom"
	// KindTransport wraps a failure surfaced by the underlying HTTP library
	// (e.g. a body-read error from net/http).
	KindTransport Kind = "transport"
	// KindSerialization wraps a JSON encode/decode failure.
	KindSerialization Kind = "serialization"
)

var statusByKind = map[Kind]int{
	KindNotFound:           http.StatusNotFound,
	KindBadRequest:         http.StatusBadRequest,
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindPayloadTooLarge:    http.StatusRequestEntityTooLarge,
	KindConflict:           http.StatusConflict,
	KindGone:               http.StatusGone,
	KindUnprocessable:      http.StatusUnprocessableEntity,
	KindTooManyRequests:    http.StatusTooManyRequests,
	KindServiceUnavailable: http.StatusServiceUnavailable,
	KindInternal:           http.StatusInternalServerError,
	KindTransport:          http.StatusInternalServerError,
	KindSerialization:      http.StatusBadRequest,
}

// Error is the framework's single error type. Every failure that flows
// through the request pipeline is, or is converted into, one of these.
type Error struct {
	kind    Kind
	status  int
	message string
	context any
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Kind reports the taxonomy bucket this error belongs to.
func (e *Error) Kind() Kind { return e.kind }

// Status reports the HTTP status code this error maps to.
func (e *Error) Status() int { return e.status }

// Message reports the human-readable message carried by the error.
func (e *Error) Message() string { return e.message }

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.wrapped }

// WithContext attaches an extra JSON-serializable value that the response
// builder merges into the body under the "context" key.
func (e *Error) WithContext(ctx any) *Error {
	clone := *e
	clone.context = ctx
	return &clone
}

// Context returns the attached context value, if any.
func (e *Error) Context() any { return e.context }

func newError(kind Kind, status int, message string) *Error {
	return &Error{kind: kind, status: status, message: message}
}

func NotFound(message string) *Error        { return newError(KindNotFound, statusByKind[KindNotFound], message) }
func BadRequest(message string) *Error      { return newError(KindBadRequest, statusByKind[KindBadRequest], message) }
func Unauthorized(message string) *Error    { return newError(KindUnauthorized, statusByKind[KindUnauthorized], message) }
func Forbidden(message string) *Error       { return newError(KindForbidden, statusByKind[KindForbidden], message) }
func PayloadTooLarge(message string) *Error {
	return newError(KindPayloadTooLarge, statusByKind[KindPayloadTooLarge], message)
}
func Conflict(message string) *Error      { return newError(KindConflict, statusByKind[KindConflict], message) }
func Gone(message string) *Error          { return newError(KindGone, statusByKind[KindGone], message) }
func Unprocessable(message string) *Error { return newError(KindUnprocessable, statusByKind[KindUnprocessable], message) }
func TooManyRequests(message string) *Error {
	return newError(KindTooManyRequests, statusByKind[KindTooManyRequests], message)
}
func ServiceUnavailable(message string) *Error {
	return newError(KindServiceUnavailable, statusByKind[KindServiceUnavailable], message)
}
func Internal(message string) *Error { return newError(KindInternal, statusByKind[KindInternal], message) }

// Custom builds an error carrying a caller-supplied status code.
func Custom(status int, message string) *Error {
	return newError(KindCustom, status, message)
}

// FromTransport wraps an error raised by the underlying HTTP library.
func FromTransport(err error) *Error {
	e := newError(KindTransport, statusByKind[KindTransport], err.Error())
	e.wrapped = err
	return e
}

// FromSerialization wraps a JSON decode/encode failure.
func FromSerialization(err error) *Error {
	e := newError(KindSerialization, statusByKind[KindSerialization], err.Error())
	e.wrapped = err
	return e
}

// As converts any error into a *Error, defaulting to Internal when it is
// not already one of ours.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Internal(err.Error())
}
