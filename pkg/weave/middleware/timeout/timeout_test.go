package timeout

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

func newCtx(t *testing.T, path string) *httpctx.Context {
	t.Helper()
	u, err := url.Parse(path)
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	return httpctx.New("GET", u, http.Header{}, nil, nil, container.New(), "127.0.0.1:1234")
}

func TestFastHandlerPassesThrough(t *testing.T) {
	mw := New(DefaultConfig(50*time.Millisecond), nil)
	resp := mw(newCtx(t, "/x"), func(ctx *httpctx.Context) response.Response {
		return response.New().Text("ok")
	})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode())
	}
}

func TestSlowHandlerTimesOut(t *testing.T) {
	mw := New(DefaultConfig(10*time.Millisecond), nil)
	resp := mw(newCtx(t, "/x"), func(ctx *httpctx.Context) response.Response {
		time.Sleep(50 * time.Millisecond)
		return response.New().Text("too late")
	})
	if resp.StatusCode() != http.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", resp.StatusCode())
	}
}

func TestSkipPathBypassesTimeout(t *testing.T) {
	cfg := DefaultConfig(10 * time.Millisecond)
	cfg.SkipPaths = []string{"/slow"}
	mw := New(cfg, nil)
	resp := mw(newCtx(t, "/slow"), func(ctx *httpctx.Context) response.Response {
		time.Sleep(30 * time.Millisecond)
		return response.New().Text("fine")
	})
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected skip path to bypass timeout, got %d", resp.StatusCode())
	}
}
