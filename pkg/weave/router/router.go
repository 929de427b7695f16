// Package router implements the method-indexed route table and the
// hierarchical request pipeline: middleware, guards, interceptors, handler,
// and exception-filter-driven error recovery.
package router

import (
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/aras-services/weave/pkg/weave/apperror"
	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/pattern"
	"github.com/aras-services/weave/pkg/weave/response"
)

// Handler answers a matched route.
type Handler func(ctx *httpctx.Context) (response.Response, error)

// Guard gates a route; it may not mutate the request and emits its own
// rejection response when it returns false.
type Guard interface {
	CanActivate(ctx *httpctx.Context) bool
	RejectionResponse() response.Response
}

// Interceptor wraps a handler invocation with a before/after pair.
type Interceptor interface {
	Before(ctx *httpctx.Context) error
	After(ctx *httpctx.Context, resp response.Response) response.Response
}

// Middleware is the outermost wrapper over the whole pipeline; it decides
// whether to invoke next at all and may transform the resulting response.
type Middleware func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response

// ExceptionFilter converts a pipeline error into a response when it
// recognizes that error's kind.
type ExceptionFilter interface {
	CanHandle(err error) bool
	Catch(err error, ctx *httpctx.Context) response.Response
}

// RouteEntry is a pattern bound to a handler plus its own guards and
// interceptors and access-control metadata.
type RouteEntry struct {
	Pattern      *pattern.Pattern
	Handler      Handler
	Guards       []Guard
	Interceptors []Interceptor
	Access       module.AccessControl
}

// RouteInfo is a diagnostic (method, path, owner) tuple used for startup
// logging; it carries no routing behavior.
type RouteInfo struct {
	Method     string
	Path       string
	Controller string
}

var standardMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Router holds the per-method route tables plus the global pipeline
// components every request passes through.
type Router struct {
	routesByMethod    map[string][]RouteEntry
	globalGuards      []Guard
	globalInterceptors []Interceptor
	globalMiddleware  []Middleware
	exceptionFilters  []ExceptionFilter
	container         *container.Container
	routeInfo         []RouteInfo
	notFoundHandler   Handler
	errorHandler      func(err error) response.Response
	bodyLimit         int64
}

// New returns an empty router bound to the app-global container.
func New(c *container.Container) *Router {
	r := &Router{
		routesByMethod: make(map[string][]RouteEntry, 8),
		container:      c,
		bodyLimit:      32 << 20,
	}
	for _, m := range standardMethods {
		r.routesByMethod[m] = nil
	}
	return r
}

// SetBodyLimit overrides the default 32MiB request body cap.
func (r *Router) SetBodyLimit(limit int64) { r.bodyLimit = limit }

// AddRoute registers a single route under method, uppercasing it.
func (r *Router) AddRoute(method, path string, handler Handler, guards []Guard, interceptors []Interceptor, access module.AccessControl, owner string) {
	method = strings.ToUpper(method)
	entry := RouteEntry{
		Pattern:      pattern.New(path),
		Handler:      handler,
		Guards:       guards,
		Interceptors: interceptors,
		Access:       access,
	}
	r.routesByMethod[method] = append(r.routesByMethod[method], entry)
	r.routeInfo = append(r.routeInfo, RouteInfo{Method: method, Path: path, Controller: owner})
	r.sortMethod(method)
}

// RegisterModuleRoutes appends every RegisteredRoute produced by the
// module boot sequence.
func (r *Router) RegisterModuleRoutes(routes []module.RegisteredRoute) {
	for _, rt := range routes {
		handler, _ := rt.Definition.Handler.(Handler)
		guards := make([]Guard, 0, len(rt.Definition.Guards))
		for _, g := range rt.Definition.Guards {
			if guard, ok := g.(Guard); ok {
				guards = append(guards, guard)
			}
		}
		interceptors := make([]Interceptor, 0, len(rt.Definition.Interceptors))
		for _, i := range rt.Definition.Interceptors {
			if interceptor, ok := i.(Interceptor); ok {
				interceptors = append(interceptors, interceptor)
			}
		}
		r.AddRoute(rt.Definition.Method, rt.Definition.Path, handler, guards, interceptors, rt.Definition.Access, rt.Module)
	}
}

func (r *Router) sortMethod(method string) {
	routes := r.routesByMethod[method]
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Pattern.Specificity() > routes[j].Pattern.Specificity()
	})
	r.routesByMethod[method] = routes
}

// AddGuard registers a global guard, evaluated before every route's own
// guards.
func (r *Router) AddGuard(g Guard) { r.globalGuards = append(r.globalGuards, g) }

// AddInterceptor registers a global interceptor.
func (r *Router) AddInterceptor(i Interceptor) { r.globalInterceptors = append(r.globalInterceptors, i) }

// AddMiddleware registers outermost-first; the first middleware added runs
// outermost.
func (r *Router) AddMiddleware(m Middleware) { r.globalMiddleware = append(r.globalMiddleware, m) }

// AddExceptionFilter registers an exception filter, consulted in
// registration order.
func (r *Router) AddExceptionFilter(f ExceptionFilter) { r.exceptionFilters = append(r.exceptionFilters, f) }

// SetNotFoundHandler overrides the default JSON 404 body.
func (r *Router) SetNotFoundHandler(h Handler) { r.notFoundHandler = h }

// SetErrorHandler overrides the default apperror-to-response conversion
// used when no exception filter claims an error.
func (r *Router) SetErrorHandler(h func(err error) response.Response) { r.errorHandler = h }

// RouteInfo reports every registered route for startup diagnostics.
func (r *Router) RouteInfo() []RouteInfo { return r.routeInfo }

// Handle services a single HTTP request end to end: body intake, method
// matching, OPTIONS/HEAD fallbacks, route selection, and pipeline
// execution (spec §4.5).
func (r *Router) Handle(req *http.Request) response.Response {
	method := strings.ToUpper(req.Method)
	path := req.URL.Path

	body, bodyErr := r.collectBody(req.Body)
	if bodyErr != nil {
		return response.FromError(apperror.As(bodyErr))
	}

	if entry, params, ok := r.findRoute(method, path); ok {
		ctx := r.newContext(req, body, params)
		return r.executeRoute(entry, ctx)
	}

	switch method {
	case "OPTIONS":
		return r.handleOptions(path)
	case "HEAD":
		if entry, params, ok := r.findRoute("GET", path); ok {
			ctx := r.newContext(req, body, params)
			return r.executeRoute(entry, ctx)
		}
	}

	return r.handleNotFound(path)
}

func (r *Router) newContext(req *http.Request, body []byte, params map[string]string) *httpctx.Context {
	remoteAddr := req.RemoteAddr
	u := req.URL
	if u == nil {
		u = &url.URL{Path: req.URL.Path}
	}
	return httpctx.New(req.Method, u, req.Header, body, params, r.container.CreateChild(), remoteAddr)
}

// collectBody reads the body up to bodyLimit, returning nil for an empty
// body and a PayloadTooLarge apperror if the limit is exceeded.
func (r *Router) collectBody(body io.ReadCloser) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	defer body.Close()

	limited := io.LimitReader(body, r.bodyLimit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, apperror.FromTransport(err)
	}
	if int64(len(data)) > r.bodyLimit {
		return nil, apperror.PayloadTooLarge("request body exceeds configured limit")
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (r *Router) findRoute(method, path string) (RouteEntry, map[string]string, bool) {
	routes, ok := r.routesByMethod[method]
	if !ok {
		return RouteEntry{}, nil, false
	}
	for _, entry := range routes {
		if params, matched := entry.Pattern.Match(path); matched {
			return entry, params, true
		}
	}
	return RouteEntry{}, nil, false
}

func (r *Router) executeRoute(entry RouteEntry, ctx *httpctx.Context) response.Response {
	ctx = ctx.WithAccessControl(entry.Access)

	core := func(ctx *httpctx.Context) response.Response {
		for _, g := range r.globalGuards {
			if !g.CanActivate(ctx) {
				return g.RejectionResponse()
			}
		}
		for _, g := range entry.Guards {
			if !g.CanActivate(ctx) {
				return g.RejectionResponse()
			}
		}

		for _, i := range r.globalInterceptors {
			if err := i.Before(ctx); err != nil {
				return r.handleError(err, ctx)
			}
		}
		for _, i := range entry.Interceptors {
			if err := i.Before(ctx); err != nil {
				return r.handleError(err, ctx)
			}
		}

		resp, err := entry.Handler(ctx)
		if err != nil {
			resp = r.handleError(err, ctx)
		}

		for i := len(entry.Interceptors) - 1; i >= 0; i-- {
			resp = entry.Interceptors[i].After(ctx, resp)
		}
		for i := len(r.globalInterceptors) - 1; i >= 0; i-- {
			resp = r.globalInterceptors[i].After(ctx, resp)
		}

		return resp
	}

	chain := core
	for i := len(r.globalMiddleware) - 1; i >= 0; i-- {
		mw := r.globalMiddleware[i]
		next := chain
		chain = func(ctx *httpctx.Context) response.Response {
			return mw(ctx, next)
		}
	}

	return chain(ctx)
}

func (r *Router) handleError(err error, ctx *httpctx.Context) response.Response {
	for _, f := range r.exceptionFilters {
		if f.CanHandle(err) {
			return f.Catch(err, ctx)
		}
	}
	if r.errorHandler != nil {
		return r.errorHandler(err)
	}
	return response.FromError(apperror.As(err))
}

func (r *Router) handleNotFound(path string) response.Response {
	if r.notFoundHandler != nil {
		ctx := httpctx.New("GET", &url.URL{Path: path}, nil, nil, nil, r.container.CreateChild(), "")
		resp, err := r.notFoundHandler(ctx)
		if err != nil {
			return r.handleError(err, ctx)
		}
		return resp
	}
	return response.New().Status(http.StatusNotFound).JSON(map[string]any{
		"error":   "Not Found",
		"message": "No route found for path: " + path,
		"status":  http.StatusNotFound,
	})
}

func (r *Router) handleOptions(path string) response.Response {
	var methods []string
	for method, routes := range r.routesByMethod {
		for _, entry := range routes {
			if _, matched := entry.Pattern.Match(path); matched {
				methods = append(methods, method)
				break
			}
		}
	}

	var allow string
	if len(methods) == 0 {
		allow = strings.Join(standardMethods, ", ")
	} else {
		sort.Strings(methods)
		allow = strings.Join(methods, ", ")
	}

	return response.New().
		Status(http.StatusNoContent).
		Header("Allow", allow).
		Header("Access-Control-Allow-Methods", allow).
		Header("Access-Control-Allow-Headers", "Content-Type, Authorization").
		Header("Access-Control-Max-Age", "86400").
		Empty()
}
