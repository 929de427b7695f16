// Package requestid stamps every request with a unique correlation ID,
// storing it in the request-scoped container slot so downstream services
// (loggers, error responses, tracing) can pull it without threading it
// through every function signature.
package requestid

import (
	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
	"github.com/google/uuid"
)

// ID is the request-scoped correlation identifier.
type ID string

// HeaderName is the header the ID is read from and echoed back on.
const HeaderName = "X-Request-Id"

// Config configures the middleware's header name and ID generation.
type Config struct {
	HeaderName string
	Generate   func() string
}

// DefaultConfig uses X-Request-Id and a UUIDv4 generator.
func DefaultConfig() Config {
	return Config{
		HeaderName: HeaderName,
		Generate:   func() string { return uuid.New().String() },
	}
}

// New builds the middleware: it reuses an inbound X-Request-Id if present,
// otherwise mints one, stores it in the request's container, and echoes it
// on the response.
func New(cfg Config) func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
	if cfg.HeaderName == "" {
		cfg.HeaderName = HeaderName
	}
	if cfg.Generate == nil {
		cfg.Generate = func() string { return uuid.New().String() }
	}

	return func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
		id, ok := ctx.HeaderValue(cfg.HeaderName)
		if !ok || id == "" {
			id = cfg.Generate()
		}

		container.SetRequestService(ctx.Container, ID(id))

		resp := next(ctx)
		return resp.Header(cfg.HeaderName, id)
	}
}

// FromContainer retrieves the request ID stamped onto this request, if any.
func FromContainer(c *container.Container) (ID, bool) {
	return container.Get[ID](c)
}
