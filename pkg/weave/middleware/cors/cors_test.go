package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestDefaultConfigAllowsAnyOrigin(t *testing.T) {
	h := New(DefaultConfig())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
}

func TestStrictConfigRejectsUnlistedOrigin(t *testing.T) {
	cfg := Strict()
	cfg.Origins = []string{"https://trusted.example"}
	cfg.OriginMode = OriginList
	h := New(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://untrusted.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header for untrusted origin, got %q", got)
	}
}

func TestMirrorOriginReflectsRequest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OriginMode = OriginMirror
	h := New(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://caller.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://caller.example" {
		t.Fatalf("expected mirrored origin, got %q", got)
	}
}

func TestPreflightListsConfiguredMethods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedMethods = []string{http.MethodGet, http.MethodPost}
	h := New(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight to succeed, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected allow-methods header on preflight response")
	}
}
