package requestid

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

func newCtx(t *testing.T, headers http.Header) *httpctx.Context {
	t.Helper()
	u, err := url.Parse("/x")
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	if headers == nil {
		headers = http.Header{}
	}
	return httpctx.New("GET", u, headers, nil, nil, container.New(), "127.0.0.1:1234")
}

func TestGeneratesIDWhenAbsent(t *testing.T) {
	mw := New(DefaultConfig())
	ctx := newCtx(t, nil)

	var seen ID
	next := func(ctx *httpctx.Context) response.Response {
		id, ok := FromContainer(ctx.Container)
		if !ok {
			t.Fatal("expected request ID to be stashed in container")
		}
		seen = id
		return response.New().Text("ok")
	}

	resp := mw(ctx, next)
	if seen == "" {
		t.Fatal("expected a non-empty generated ID")
	}
	if resp.Headers().Get(HeaderName) != string(seen) {
		t.Fatalf("expected response header to echo the ID, got %q", resp.Headers().Get(HeaderName))
	}
}

func TestReusesInboundID(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderName, "fixed-id-123")
	mw := New(DefaultConfig())
	ctx := newCtx(t, h)

	next := func(ctx *httpctx.Context) response.Response { return response.New().Text("ok") }
	resp := mw(ctx, next)

	if resp.Headers().Get(HeaderName) != "fixed-id-123" {
		t.Fatalf("expected inbound ID to be reused, got %q", resp.Headers().Get(HeaderName))
	}
}
