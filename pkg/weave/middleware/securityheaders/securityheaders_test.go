package securityheaders

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

func newCtx(t *testing.T) *httpctx.Context {
	t.Helper()
	u, err := url.Parse("/x")
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	return httpctx.New("GET", u, http.Header{}, nil, nil, container.New(), "127.0.0.1:1234")
}

func TestDefaultConfigSetsHardeningHeaders(t *testing.T) {
	mw := New(DefaultConfig())
	next := func(ctx *httpctx.Context) response.Response {
		return response.New().Header("Server", "leaky/1.0").Text("ok")
	}

	resp := mw(newCtx(t), next)

	if resp.Headers().Get("X-Frame-Options") != string(FrameSameOrigin) {
		t.Fatalf("expected X-Frame-Options to be set")
	}
	if resp.Headers().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff")
	}
	if resp.Headers().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS header")
	}
	if resp.Headers().Get("Server") != "" {
		t.Fatalf("expected Server header to be stripped")
	}
}

func TestPermissiveOnlySetsNosniff(t *testing.T) {
	mw := New(Permissive())
	next := func(ctx *httpctx.Context) response.Response { return response.New().Text("ok") }

	resp := mw(newCtx(t), next)

	if resp.Headers().Get("X-Frame-Options") != "" {
		t.Fatalf("expected permissive config to leave X-Frame-Options unset")
	}
	if resp.Headers().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff even under permissive config")
	}
}

func TestCustomHeadersApplied(t *testing.T) {
	cfg := Permissive()
	cfg.CustomHeaders = map[string]string{"X-App-Version": "1.2.3"}
	mw := New(cfg)
	next := func(ctx *httpctx.Context) response.Response { return response.New().Text("ok") }

	resp := mw(newCtx(t), next)
	if resp.Headers().Get("X-App-Version") != "1.2.3" {
		t.Fatalf("expected custom header to be set")
	}
}
