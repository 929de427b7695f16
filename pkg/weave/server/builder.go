// Package server implements the server builder and runner: module/guard/
// interceptor/middleware/exception-filter registration, the boot
// sequence's startup-hook ordering, and the connection lifecycle that
// binds the framework's router onto net/http.Server.
package server

import (
	"fmt"
	"net/http"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/injects"
	"github.com/aras-services/weave/pkg/weave/log"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/response"
	"github.com/aras-services/weave/pkg/weave/router"
)

// Builder accumulates everything a server needs before it can bind: the
// module tree, global pipeline components, and lifecycle hooks. It
// mirrors the original's MurServerBuilder / MurServerRunner split
// (builder.rs / runner.rs): Bind performs the one-shot boot sequence and
// hands back an immutable Runner.
type Builder struct {
	container *container.Container
	injects   *injects.Injects
	logger    *log.Logger

	modules []module.Module

	guards       []router.Guard
	interceptors []router.Interceptor
	middleware   []router.Middleware
	filters      []router.ExceptionFilter
	transport    []func(http.Handler) http.Handler

	bodyLimit       int64
	notFoundHandler router.Handler
	errorHandler    func(error) response.Response

	onStartup []func()
	onShutdown []func()
}

// NewBuilder starts a builder bound to the app-global service container
// and the root injectables registry.
func NewBuilder(c *container.Container, inj *injects.Injects) *Builder {
	return &Builder{container: c, injects: inj}
}

// UseLogger registers the process logger used for accept-loop and
// shutdown-phase diagnostics. Optional; a nil logger means runner
// diagnostics are dropped.
func (b *Builder) UseLogger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// UseModule registers a root module; its imports are booted transitively.
func (b *Builder) UseModule(m module.Module) *Builder {
	b.modules = append(b.modules, m)
	return b
}

// UseGuard registers a global guard, run before every route's own guards.
func (b *Builder) UseGuard(g router.Guard) *Builder {
	b.guards = append(b.guards, g)
	return b
}

// UseInterceptor registers a global interceptor.
func (b *Builder) UseInterceptor(i router.Interceptor) *Builder {
	b.interceptors = append(b.interceptors, i)
	return b
}

// UseMiddleware registers a global middleware, outermost-registered-first
// (the first UseMiddleware call wraps everything else).
func (b *Builder) UseMiddleware(m router.Middleware) *Builder {
	b.middleware = append(b.middleware, m)
	return b
}

// UseExceptionFilter registers a global exception filter, tried in
// registration order before the default error-to-response conversion.
func (b *Builder) UseExceptionFilter(f router.ExceptionFilter) *Builder {
	b.filters = append(b.filters, f)
	return b
}

// UseTransportMiddleware registers a net/http-level wrapper applied
// outside the ctx-based pipeline entirely, first-registered-outermost.
// This is where CORS binds (spec §4.5's guard/interceptor/middleware
// chain all assume a matched route; CORS preflight must be answered
// before routing even runs).
func (b *Builder) UseTransportMiddleware(mw func(http.Handler) http.Handler) *Builder {
	b.transport = append(b.transport, mw)
	return b
}

// SetBodyLimit overrides the router's default request-body cap.
func (b *Builder) SetBodyLimit(limit int64) *Builder {
	b.bodyLimit = limit
	return b
}

// SetNotFoundHandler overrides the router's default 404 JSON body.
func (b *Builder) SetNotFoundHandler(h router.Handler) *Builder {
	b.notFoundHandler = h
	return b
}

// SetErrorHandler overrides the router's default error-to-response
// conversion, used when no exception filter claims an error.
func (b *Builder) SetErrorHandler(h func(error) response.Response) *Builder {
	b.errorHandler = h
	return b
}

// OnStartup registers a hook run synchronously before the listener binds.
func (b *Builder) OnStartup(fn func()) *Builder {
	b.onStartup = append(b.onStartup, fn)
	return b
}

// OnShutdown registers a hook run after connections have drained, before
// the root injects' OnShutdown.
func (b *Builder) OnShutdown(fn func()) *Builder {
	b.onShutdown = append(b.onShutdown, fn)
	return b
}

// Bind runs the boot sequence (spec §4.3, §4.9 startup): root injects'
// OnInit, module composition, constructed-service OnInit, router
// assembly, then returns an unstarted Runner. Bind performs no I/O; the
// listener is opened by Runner.Run/RunUntil.
func (b *Builder) Bind(cfg Config) (*Runner, error) {
	b.injects.OnInit()

	bootResult, services, err := module.Boot(b.modules, b.container, b.injects)
	if err != nil {
		return nil, fmt.Errorf("weave/server: module boot failed: %w", err)
	}

	for _, svc := range services {
		if initable, ok := svc.(injects.Initializable); ok {
			initable.OnInit()
		}
	}
	for _, m := range b.modules {
		if initable, ok := m.(module.Initializable); ok {
			initable.OnInit()
		}
	}

	r := router.New(b.container)
	if b.bodyLimit > 0 {
		r.SetBodyLimit(b.bodyLimit)
	}
	for _, g := range b.guards {
		r.AddGuard(g)
	}
	for _, i := range b.interceptors {
		r.AddInterceptor(i)
	}
	for _, mw := range b.middleware {
		r.AddMiddleware(mw)
	}
	for _, f := range b.filters {
		r.AddExceptionFilter(f)
	}
	if b.notFoundHandler != nil {
		r.SetNotFoundHandler(b.notFoundHandler)
	}
	if b.errorHandler != nil {
		r.SetErrorHandler(b.errorHandler)
	}
	r.RegisterModuleRoutes(bootResult.Routes)

	var handler http.Handler = httpHandler{router: r}
	for i := len(b.transport) - 1; i >= 0; i-- {
		handler = b.transport[i](handler)
	}

	runner, err := newRunner(handler, r, cfg, b.modules, b.injects, services, b.onStartup, b.onShutdown, b.logger)
	if err != nil {
		return nil, err
	}
	return runner, nil
}
