package httpctx

import (
	"encoding/json"
	"strconv"
	"unicode/utf8"

	"github.com/aras-services/weave/pkg/weave/apperror"
	"github.com/aras-services/weave/pkg/weave/container"
)

// JSON deserializes the request body into T. A missing body is a
// BadRequest("Missing request body"); a malformed body is a BadRequest
// naming the decode error, per spec §4.6.
func JSON[T any](c *Context) (T, error) {
	var zero T
	if c.Body == nil {
		return zero, apperror.BadRequest("Missing request body")
	}
	var out T
	if err := json.Unmarshal(c.Body, &out); err != nil {
		return zero, apperror.BadRequest("Invalid JSON: " + err.Error())
	}
	return out, nil
}

// Path extracts a single named path parameter as a string.
func Path(c *Context, name string) (string, error) {
	v, ok := c.PathParam(name)
	if !ok {
		return "", apperror.BadRequest("Missing path parameter: " + name)
	}
	return v, nil
}

// PathStruct deserializes the entire path-params map into T by round
// tripping it through JSON, the same object-shaped extraction Query uses
// for query params.
func PathStruct[T any](c *Context) (T, error) {
	var zero T
	encoded, err := json.Marshal(c.PathParams)
	if err != nil {
		return zero, apperror.Internal("failed to encode path params: " + err.Error())
	}
	var out T
	if err := json.Unmarshal(encoded, &out); err != nil {
		return zero, apperror.BadRequest("Failed to parse path params: " + err.Error())
	}
	return out, nil
}

// Query parses the URI query string into T. An empty query yields T's
// zero value. Values are matched by JSON field name against the raw
// string query parameters.
func Query[T any](c *Context) (T, error) {
	var zero T
	q := c.queryMap()
	if len(q) == 0 {
		return zero, nil
	}
	encoded, err := json.Marshal(q)
	if err != nil {
		return zero, apperror.Internal("failed to encode query params: " + err.Error())
	}
	var out T
	if err := json.Unmarshal(encoded, &out); err != nil {
		return zero, apperror.BadRequest("Failed to parse query params: " + err.Error())
	}
	return out, nil
}

// QueryParamAs parses a single named query parameter via strconv-style
// conversion for the common scalar kinds; callers needing arbitrary types
// should use Query[T] instead.
func QueryParamAs[T ~string | ~int | ~int64 | ~float64 | ~bool](c *Context, name string) (T, bool) {
	var zero T
	raw, ok := c.QueryParam(name)
	if !ok {
		return zero, false
	}
	return parseScalar[T](raw)
}

func parseScalar[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(n).(T), true
	case int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(T), true
	case float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(T), true
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(b).(T), true
	default:
		return zero, false
	}
}

// Header extracts a single named header, failing with BadRequest if absent.
func Header(c *Context, name string) (string, error) {
	v, ok := c.HeaderValue(name)
	if !ok {
		return "", apperror.BadRequest("Missing header: " + name)
	}
	return v, nil
}

// Text decodes the body as UTF-8 text; a body that is not valid UTF-8 is a
// BadRequest.
func Text(c *Context) (string, error) {
	if c.Body == nil {
		return "", apperror.BadRequest("Missing request body")
	}
	if !utf8.Valid(c.Body) {
		return "", apperror.BadRequest("Invalid UTF-8 in request body")
	}
	return string(c.Body), nil
}

// Bytes returns the raw body, or an empty slice if none was sent.
func Bytes(c *Context) []byte {
	if c.Body == nil {
		return []byte{}
	}
	return c.Body
}

// Form parses the body as application/x-www-form-urlencoded data.
func Form[T any](c *Context) (T, error) {
	var zero T
	body, err := Text(c)
	if err != nil {
		return zero, err
	}
	values, err := parseFormURLEncoded(body)
	if err != nil {
		return zero, apperror.BadRequest("Invalid form data: " + err.Error())
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return zero, apperror.Internal("failed to encode form data: " + err.Error())
	}
	var out T
	if err := json.Unmarshal(encoded, &out); err != nil {
		return zero, apperror.BadRequest("Invalid form data: " + err.Error())
	}
	return out, nil
}

// Service resolves a container-registered service for use inside a
// handler; it is a thin pass-through over container.Get so handlers do
// not need to import the container package directly.
func Service[T any](c *Context) (T, bool) {
	return container.Get[T](c.Container)
}

// ServiceRequired resolves a container-registered service or panics.
func ServiceRequired[T any](c *Context) T {
	return container.MustGet[T](c.Container)
}
