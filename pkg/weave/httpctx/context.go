// Package httpctx implements the request context handed to guards,
// interceptors and handlers: immutable accessors over the parsed request
// plus typed extractors built on top of it.
package httpctx

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/module"
)

// Context is the immutable (from the application's point of view) request
// context described in spec §3/§4.6. The query cache is the one internal,
// lazily-initialized field.
type Context struct {
	Method      string
	URL         *url.URL
	Header      http.Header
	Body        []byte
	PathParams  map[string]string
	Container   *container.Container
	Access      *module.AccessControl
	remoteAddr  string

	queryOnce sync.Once
	queryVals map[string]string
}

// New builds a Context from the already-decomposed parts of an incoming
// request. body is nil when the request carried no body.
func New(method string, u *url.URL, header http.Header, body []byte, pathParams map[string]string, c *container.Container, remoteAddr string) *Context {
	if pathParams == nil {
		pathParams = map[string]string{}
	}
	return &Context{
		Method:     method,
		URL:        u,
		Header:     header,
		Body:       body,
		PathParams: pathParams,
		Container:  c,
		remoteAddr: remoteAddr,
	}
}

// WithAccessControl attaches the route's access-control metadata.
func (c *Context) WithAccessControl(ac module.AccessControl) *Context {
	c.Access = &ac
	return c
}

// Path returns the request's URI path.
func (c *Context) Path() string { return c.URL.Path }

// PathSegments returns the non-empty path segments.
func (c *Context) PathSegments() []string {
	trimmed := strings.Trim(c.URL.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// PathSegment returns the segment at index, if present.
func (c *Context) PathSegment(index int) (string, bool) {
	segs := c.PathSegments()
	if index < 0 || index >= len(segs) {
		return "", false
	}
	return segs[index], true
}

// PathParam returns a named path parameter.
func (c *Context) PathParam(name string) (string, bool) {
	v, ok := c.PathParams[name]
	return v, ok
}

// HasPathParam reports whether name was captured.
func (c *Context) HasPathParam(name string) bool {
	_, ok := c.PathParams[name]
	return ok
}

// queryMap lazily parses and caches the query string.
func (c *Context) queryMap() map[string]string {
	c.queryOnce.Do(func() {
		c.queryVals = map[string]string{}
		for k, vs := range c.URL.Query() {
			if len(vs) > 0 {
				c.queryVals[k] = vs[0]
			}
		}
	})
	return c.queryVals
}

// QueryParam returns a single query parameter value.
func (c *Context) QueryParam(name string) (string, bool) {
	v, ok := c.queryMap()[name]
	return v, ok
}

// QueryParamOr returns a query parameter or a default.
func (c *Context) QueryParamOr(name, def string) string {
	if v, ok := c.QueryParam(name); ok {
		return v
	}
	return def
}

// HasQueryParam reports whether name is present in the query string.
func (c *Context) HasQueryParam(name string) bool {
	_, ok := c.QueryParam(name)
	return ok
}

// QueryString returns the raw query string.
func (c *Context) QueryString() string { return c.URL.RawQuery }

// HeaderValue returns the first value of a header.
func (c *Context) HeaderValue(name string) (string, bool) {
	vs, ok := c.Header[http.CanonicalHeaderKey(name)]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// HeaderOr returns a header value or a default.
func (c *Context) HeaderOr(name, def string) string {
	if v, ok := c.HeaderValue(name); ok {
		return v
	}
	return def
}

// HeaderAll returns every value for a header.
func (c *Context) HeaderAll(name string) []string {
	return c.Header[http.CanonicalHeaderKey(name)]
}

// HasHeader reports whether a header is present.
func (c *Context) HasHeader(name string) bool {
	_, ok := c.HeaderValue(name)
	return ok
}

// ContentType returns the Content-Type header value.
func (c *Context) ContentType() string {
	v, _ := c.HeaderValue("Content-Type")
	return v
}

// IsJSON reports whether the content type is application/json.
func (c *Context) IsJSON() bool { return strings.Contains(c.ContentType(), "application/json") }

// IsForm reports whether the content type is form-urlencoded.
func (c *Context) IsForm() bool {
	return strings.Contains(c.ContentType(), "application/x-www-form-urlencoded")
}

// IsMultipart reports whether the content type is multipart/form-data.
func (c *Context) IsMultipart() bool { return strings.Contains(c.ContentType(), "multipart/form-data") }

// Authorization returns the raw Authorization header value.
func (c *Context) Authorization() (string, bool) { return c.HeaderValue("Authorization") }

// BearerToken extracts the token from a "Bearer <token>" Authorization header.
func (c *Context) BearerToken() (string, bool) {
	auth, ok := c.Authorization()
	if !ok {
		return "", false
	}
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return "", false
	}
	return token, true
}

// BasicAuth decodes a "Basic <base64(user:pass)>" Authorization header.
func (c *Context) BasicAuth() (username, password string, ok bool) {
	auth, found := c.Authorization()
	if !found {
		return "", "", false
	}
	encoded, found := strings.CutPrefix(auth, "Basic ")
	if !found {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	user, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return user, pass, true
}

// UserAgent returns the User-Agent header value.
func (c *Context) UserAgent() (string, bool) { return c.HeaderValue("User-Agent") }

// Accept returns the Accept header value.
func (c *Context) Accept() (string, bool) { return c.HeaderValue("Accept") }

// AcceptsJSON reports whether the client's Accept header allows JSON (or is
// absent, which the framework treats as accepting anything).
func (c *Context) AcceptsJSON() bool {
	accept, ok := c.Accept()
	if !ok {
		return true
	}
	return strings.Contains(accept, "application/json") || strings.Contains(accept, "*/*")
}

// HasBody reports whether a body was present.
func (c *Context) HasBody() bool { return c.Body != nil }

// ContentLength returns the Content-Length header, parsed, if present.
func (c *Context) ContentLength() (int, bool) {
	v, ok := c.HeaderValue("Content-Length")
	if !ok {
		return 0, false
	}
	n := 0
	for _, ch := range v {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	return n, true
}

// ClientIP derives the caller's address: X-Forwarded-For first (its first
// comma-separated entry), then X-Real-IP, then "unknown".
func (c *Context) ClientIP() string {
	if v, ok := c.HeaderValue("X-Forwarded-For"); ok {
		first, _, _ := strings.Cut(v, ",")
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}
	if v, ok := c.HeaderValue("X-Real-IP"); ok && v != "" {
		return v
	}
	return "unknown"
}

// RemoteAddr returns the raw transport-level remote address, distinct from
// the header-derived ClientIP.
func (c *Context) RemoteAddr() string { return c.remoteAddr }

// Host returns the Host header value.
func (c *Context) Host() (string, bool) { return c.HeaderValue("Host") }

// Origin returns the Origin header value.
func (c *Context) Origin() (string, bool) { return c.HeaderValue("Origin") }

// Referer returns the Referer header value.
func (c *Context) Referer() (string, bool) { return c.HeaderValue("Referer") }

// IsPublicRoute reports whether the matched route is marked public.
func (c *Context) IsPublicRoute() bool {
	return c.Access != nil && c.Access.IsPublic
}

// HasAllowedRole reports whether role satisfies the route's access control.
// A route with no access control, or an empty allow-list, permits anyone.
func (c *Context) HasAllowedRole(role string) bool {
	if c.Access == nil || len(c.Access.AllowedRoles) == 0 {
		return true
	}
	for _, r := range c.Access.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}
