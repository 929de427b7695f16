package ratelimit

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

func TestFixedWindowAllowsUpToMax(t *testing.T) {
	store := NewInMemoryStore()
	cfg := DefaultConfig()
	cfg.MaxRequests = 2
	cfg.Window = time.Minute

	mw := New(cfg, store)
	next := func(ctx *httpctx.Context) response.Response { return response.New().Text("ok") }

	r1 := mw(newCtx(t, "/x"), next)
	r2 := mw(newCtx(t, "/x"), next)
	r3 := mw(newCtx(t, "/x"), next)

	if r1.StatusCode() != http.StatusOK || r2.StatusCode() != http.StatusOK {
		t.Fatalf("expected first two requests to pass")
	}
	if r3.StatusCode() != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be rate limited, got %d", r3.StatusCode())
	}
}

func TestSkipPathsBypassLimiter(t *testing.T) {
	store := NewInMemoryStore()
	cfg := DefaultConfig()
	cfg.MaxRequests = 1
	cfg.SkipPaths = []string{"/health"}

	mw := New(cfg, store)
	next := func(ctx *httpctx.Context) response.Response { return response.New().Text("ok") }

	for i := 0; i < 5; i++ {
		resp := mw(newCtx(t, "/health"), next)
		if resp.StatusCode() != http.StatusOK {
			t.Fatalf("expected skip path to always pass, got %d on iteration %d", resp.StatusCode(), i)
		}
	}
}

func TestTokenBucketAllowsBurstThenThrottles(t *testing.T) {
	store := NewTokenBucketStore()
	allowed, _, _ := store.CheckAndUpdate("k", 2, time.Minute)
	if !allowed {
		t.Fatal("expected first token to be available")
	}
	allowed, _, _ = store.CheckAndUpdate("k", 2, time.Minute)
	if !allowed {
		t.Fatal("expected second token to be available")
	}
	allowed, _, _ = store.CheckAndUpdate("k", 2, time.Minute)
	if allowed {
		t.Fatal("expected bucket to be exhausted on third hit")
	}
}

func TestSlidingWindowRejectsAtThreshold(t *testing.T) {
	store := NewSlidingWindowStore()
	for i := 0; i < 3; i++ {
		store.CheckAndUpdate("k", 3, time.Minute)
	}
	allowed, _, _ := store.CheckAndUpdate("k", 3, time.Minute)
	if allowed {
		t.Fatal("expected sliding window to reject once weighted count reaches max")
	}
}

func TestByIPPrefersForwardedFor(t *testing.T) {
	ctx := newCtx(t, "/x")
	ctx.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	key, ok := ByIP()(ctx)
	if !ok || key != "1.2.3.4" {
		t.Fatalf("expected 1.2.3.4, got %q ok=%v", key, ok)
	}
}
