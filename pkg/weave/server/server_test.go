package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/injects"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/response"
	"github.com/aras-services/weave/pkg/weave/router"
)

type pingController struct{}

func (pingController) Routes() []module.RouteDefinition {
	handler := router.Handler(func(ctx *httpctx.Context) (response.Response, error) {
		return response.New().Text("pong"), nil
	})
	return []module.RouteDefinition{
		{Method: "GET", Path: "/ping", Handler: handler, Access: module.AccessControl{IsPublic: true}},
	}
}

type pingModule struct{}

func (pingModule) Name() string             { return "ping" }
func (pingModule) Imports() []module.Module { return nil }
func (pingModule) Exports() []reflect.Type  { return nil }
func (pingModule) Services() []module.ServiceProvider { return nil }
func (pingModule) Controllers() []module.ControllerProvider {
	return []module.ControllerProvider{
		{Construct: func(c *container.Container, inj *injects.Injects) module.Controller {
			return pingController{}
		}},
	}
}

func TestBuilderBindRegistersModuleRoutes(t *testing.T) {
	b := NewBuilder(container.New(), injects.New())
	b.UseModule(pingModule{})

	runner, err := b.Bind(Config{Addr: ":0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	runner.Router().Handle(req).Write(rec)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "pong" {
		t.Fatalf("expected pong, got %q", rec.Body.String())
	}
}

func TestUseTransportMiddlewareWrapsHandler(t *testing.T) {
	b := NewBuilder(container.New(), injects.New())
	b.UseModule(pingModule{})
	b.UseTransportMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Wrapped", "yes")
			next.ServeHTTP(w, r)
		})
	})

	runner, err := b.Bind(Config{Addr: ":0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	runner.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Wrapped") != "yes" {
		t.Fatalf("expected transport middleware to run, headers: %v", rec.Header())
	}
}

func TestRunUntilStopsOnContextCancellation(t *testing.T) {
	b := NewBuilder(container.New(), injects.New())
	b.UseModule(pingModule{})

	runner, err := b.Bind(Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.RunUntil(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("RunUntil did not return after context cancellation")
	}
}

func TestOnShutdownHookRunsAfterDrain(t *testing.T) {
	b := NewBuilder(container.New(), injects.New())
	b.UseModule(pingModule{})

	called := false
	b.OnShutdown(func() { called = true })

	runner, err := b.Bind(Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.RunUntil(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if !called {
		t.Fatalf("expected shutdown hook to run")
	}
}
