// Package response implements the immutable response builder that every
// handler, guard rejection, and error conversion in the framework funnels
// through.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aras-services/weave/pkg/weave/apperror"
)

// Response is an immutable value describing an HTTP response to be written.
// Builder methods return a new Response rather than mutating the receiver.
type Response struct {
	status  int
	headers http.Header
	body    []byte
}

// New starts a builder with a 200 status and no body.
func New() Response {
	return Response{status: http.StatusOK, headers: http.Header{}}
}

// Status sets the response status code.
func (r Response) Status(code int) Response {
	r.headers = r.headers.Clone()
	r.status = code
	return r
}

// Header sets a header, replacing any existing values for that name.
func (r Response) Header(name, value string) Response {
	r.headers = r.headers.Clone()
	r.headers.Set(name, value)
	return r
}

// AppendHeader appends a header value without clearing existing ones.
func (r Response) AppendHeader(name, value string) Response {
	r.headers = r.headers.Clone()
	r.headers.Add(name, value)
	return r
}

// WithoutHeader removes a header, if present.
func (r Response) WithoutHeader(name string) Response {
	r.headers = r.headers.Clone()
	r.headers.Del(name)
	return r
}

// JSON serializes v and sets Content-Type: application/json. A
// serialization failure degrades to an Internal error response rather than
// panicking, per the error-response invariant that the builder always
// produces a response.
func (r Response) JSON(v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Internal(err.Error())
	}
	r.headers = r.headers.Clone()
	r.headers.Set("Content-Type", "application/json")
	r.body = body
	return r
}

// Text sets a UTF-8 text/plain body.
func (r Response) Text(s string) Response {
	r.headers = r.headers.Clone()
	r.headers.Set("Content-Type", "text/plain; charset=utf-8")
	r.body = []byte(s)
	return r
}

// HTML sets a UTF-8 text/html body.
func (r Response) HTML(s string) Response {
	r.headers = r.headers.Clone()
	r.headers.Set("Content-Type", "text/html; charset=utf-8")
	r.body = []byte(s)
	return r
}

// Raw sets an arbitrary byte body under the given content type.
func (r Response) Raw(body []byte, contentType string) Response {
	r.headers = r.headers.Clone()
	if contentType != "" {
		r.headers.Set("Content-Type", contentType)
	}
	r.body = body
	return r
}

// Empty clears the body, leaving headers and status as-is.
func (r Response) Empty() Response {
	r.body = nil
	return r
}

// Redirect sets the Location header and a redirect status (defaults to 302
// if status is 0 or not a 3xx code).
func Redirect(location string, status int) Response {
	if status < 300 || status > 399 {
		status = http.StatusFound
	}
	return New().Status(status).Header("Location", location)
}

// StatusCode reports the response's status code.
func (r Response) StatusCode() int { return r.status }

// Body reports the response's raw body bytes.
func (r Response) Body() []byte { return r.body }

// Headers reports the response's header set. Callers must not mutate it;
// clone if mutation is required.
func (r Response) Headers() http.Header { return r.headers }

// Write flushes the response onto an http.ResponseWriter.
func (r Response) Write(w http.ResponseWriter) {
	dst := w.Header()
	for name, values := range r.headers {
		dst[name] = values
	}
	if r.status == 0 {
		r.status = http.StatusOK
	}
	w.WriteHeader(r.status)
	if len(r.body) > 0 {
		_, _ = w.Write(r.body)
	}
}

// errorBody is the fixed JSON shape every error response carries.
type errorBody struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Kind    string `json:"kind"`
	Context any    `json:"context,omitempty"`
}

// FromError converts an apperror.Error into a Response carrying the
// taxonomy's fixed JSON shape: {"error", "status", "kind"[, "context"]}.
func FromError(err *apperror.Error) Response {
	body := errorBody{
		Error:  err.Message(),
		Status: err.Status(),
		Kind:   string(err.Kind()),
	}
	if ctx := err.Context(); ctx != nil {
		body.Context = ctx
	}
	return New().Status(err.Status()).JSON(body)
}

// Internal builds a bare 500 JSON error response, used when the builder
// itself cannot proceed (e.g. a JSON marshal failure) and must not panic.
func Internal(message string) Response {
	return FromError(apperror.Internal(message))
}
