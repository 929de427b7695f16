package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aras-services/weave/pkg/weave/apperror"
	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/response"
)

func newRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req
}

func TestRouterMatchesLiteralRoute(t *testing.T) {
	r := New(container.New())
	r.AddRoute("GET", "/health", func(ctx *httpctx.Context) (response.Response, error) {
		return response.New().Text("ok"), nil
	}, nil, nil, module.AccessControl{}, "test")

	resp := r.Handle(newRequest("GET", "/health"))
	if resp.StatusCode() != http.StatusOK || string(resp.Body()) != "ok" {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode(), resp.Body())
	}
}

func TestRouterNotFoundDefaultJSON(t *testing.T) {
	r := New(container.New())
	resp := r.Handle(newRequest("GET", "/nope"))
	if resp.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode())
	}
}

func TestRouterOptionsListsMatchingMethods(t *testing.T) {
	r := New(container.New())
	r.AddRoute("GET", "/items", noopHandler, nil, nil, module.AccessControl{}, "test")
	r.AddRoute("POST", "/items", noopHandler, nil, nil, module.AccessControl{}, "test")

	resp := r.Handle(newRequest("OPTIONS", "/items"))
	if resp.StatusCode() != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode())
	}
	allow := resp.Headers().Get("Allow")
	if allow != "GET, POST" {
		t.Fatalf("expected GET, POST, got %q", allow)
	}
}

func TestRouterHeadFallsBackToGet(t *testing.T) {
	r := New(container.New())
	r.AddRoute("GET", "/items", func(ctx *httpctx.Context) (response.Response, error) {
		return response.New().Text("body"), nil
	}, nil, nil, module.AccessControl{}, "test")

	resp := r.Handle(newRequest("HEAD", "/items"))
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200 via HEAD fallback, got %d", resp.StatusCode())
	}
}

func TestRouterSpecificityOrdering(t *testing.T) {
	r := New(container.New())
	r.AddRoute("GET", "/users/:id", func(ctx *httpctx.Context) (response.Response, error) {
		return response.New().Text("param"), nil
	}, nil, nil, module.AccessControl{}, "test")
	r.AddRoute("GET", "/users/profile", func(ctx *httpctx.Context) (response.Response, error) {
		return response.New().Text("literal"), nil
	}, nil, nil, module.AccessControl{}, "test")

	resp := r.Handle(newRequest("GET", "/users/profile"))
	if string(resp.Body()) != "literal" {
		t.Fatalf("expected literal route to win, got %q", resp.Body())
	}
}

type rejectingGuard struct{}

func (rejectingGuard) CanActivate(ctx *httpctx.Context) bool { return false }
func (rejectingGuard) RejectionResponse() response.Response {
	return response.FromError(apperror.Forbidden("nope"))
}

func TestRouterGuardRejectsRequest(t *testing.T) {
	r := New(container.New())
	r.AddGuard(rejectingGuard{})
	r.AddRoute("GET", "/secret", noopHandler, nil, nil, module.AccessControl{}, "test")

	resp := r.Handle(newRequest("GET", "/secret"))
	if resp.StatusCode() != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode())
	}
}

func TestRouterMiddlewareWrapsHandler(t *testing.T) {
	r := New(container.New())
	var order []string
	r.AddMiddleware(func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
		order = append(order, "before")
		resp := next(ctx)
		order = append(order, "after")
		return resp
	})
	r.AddRoute("GET", "/ping", func(ctx *httpctx.Context) (response.Response, error) {
		order = append(order, "handler")
		return response.New().Text("pong"), nil
	}, nil, nil, module.AccessControl{}, "test")

	r.Handle(newRequest("GET", "/ping"))
	if len(order) != 3 || order[0] != "before" || order[1] != "handler" || order[2] != "after" {
		t.Fatalf("unexpected middleware order: %v", order)
	}
}

func TestRouterHandlerErrorConvertsToResponse(t *testing.T) {
	r := New(container.New())
	r.AddRoute("GET", "/boom", func(ctx *httpctx.Context) (response.Response, error) {
		return response.Response{}, apperror.Conflict("already exists")
	}, nil, nil, module.AccessControl{}, "test")

	resp := r.Handle(newRequest("GET", "/boom"))
	if resp.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode())
	}
}

func noopHandler(ctx *httpctx.Context) (response.Response, error) {
	return response.New(), nil
}
