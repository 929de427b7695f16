// Package ratelimit implements the rate-limit middleware contract: a
// pluggable key extractor, a pluggable store keyed by (key, max, window),
// and three selectable algorithms.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

// Algorithm selects which Store backs the limiter.
type Algorithm int

const (
	FixedWindow Algorithm = iota
	SlidingWindow
	TokenBucket
)

// KeyFunc extracts the rate-limit bucket key from a request; ok is false
// when the key cannot be determined (e.g. ByHeader when the header is
// absent).
type KeyFunc func(ctx *httpctx.Context) (string, bool)

// ByIP keys on the client's derived IP (X-Forwarded-For, then
// X-Real-IP, then CF-Connecting-IP).
func ByIP() KeyFunc {
	return func(ctx *httpctx.Context) (string, bool) {
		if v, ok := ctx.HeaderValue("X-Forwarded-For"); ok {
			first, _, _ := strings.Cut(v, ",")
			return strings.TrimSpace(first), true
		}
		if v, ok := ctx.HeaderValue("X-Real-IP"); ok {
			return v, true
		}
		if v, ok := ctx.HeaderValue("CF-Connecting-IP"); ok {
			return v, true
		}
		return "unknown", true
	}
}

// ByHeader keys on a named header's value.
func ByHeader(name string) KeyFunc {
	return func(ctx *httpctx.Context) (string, bool) {
		return ctx.HeaderValue(name)
	}
}

// ByBearerToken keys on the Authorization bearer token.
func ByBearerToken() KeyFunc {
	return func(ctx *httpctx.Context) (string, bool) {
		return ctx.BearerToken()
	}
}

// ByIPAndHeader combines the derived IP with a header value.
func ByIPAndHeader(name string) KeyFunc {
	ip := ByIP()
	return func(ctx *httpctx.Context) (string, bool) {
		ipVal, ok := ip(ctx)
		if !ok {
			return "", false
		}
		headerVal, _ := ctx.HeaderValue(name)
		return ipVal + ":" + headerVal, true
	}
}

// Global applies a single bucket to every request.
func Global() KeyFunc {
	return func(ctx *httpctx.Context) (string, bool) { return "__global__", true }
}

// Config configures the rate-limit middleware.
type Config struct {
	MaxRequests      uint64
	Window           time.Duration
	KeyFunc          KeyFunc
	Algorithm        Algorithm
	Message          string
	IncludeHeaders   bool
	SkipPaths        []string
	SkipOnMissingKey bool
	StatusCode       int
}

// DefaultConfig mirrors the teacher's default: 100 requests/minute,
// fixed window, IP-keyed, headers included.
func DefaultConfig() Config {
	return Config{
		MaxRequests:    100,
		Window:         time.Minute,
		KeyFunc:        ByIP(),
		Algorithm:      FixedWindow,
		IncludeHeaders: true,
		StatusCode:     http.StatusTooManyRequests,
	}
}

// Store yields (allowed, remaining, reset_epoch_seconds) for a given key.
type Store interface {
	CheckAndUpdate(key string, max uint64, window time.Duration) (allowed bool, remaining uint64, resetAt int64)
	Reset(key string)
}

// New builds the middleware function. If cfg.KeyFunc or the store implied
// by cfg.Algorithm is missing, sensible defaults are filled in.
func New(cfg Config, store Store) func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ByIP()
	}
	if cfg.StatusCode == 0 {
		cfg.StatusCode = http.StatusTooManyRequests
	}
	if store == nil {
		switch cfg.Algorithm {
		case SlidingWindow:
			store = NewSlidingWindowStore()
		case TokenBucket:
			store = NewTokenBucketStore()
		default:
			store = NewInMemoryStore()
		}
	}

	shouldSkip := func(path string) bool {
		for _, p := range cfg.SkipPaths {
			if strings.HasSuffix(p, "*") {
				if strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
					return true
				}
			} else if path == p {
				return true
			}
		}
		return false
	}

	return func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
		if shouldSkip(ctx.Path()) {
			return next(ctx)
		}

		key, ok := cfg.KeyFunc(ctx)
		if !ok {
			if cfg.SkipOnMissingKey {
				return next(ctx)
			}
			key = "unknown"
		}

		allowed, remaining, resetAt := store.CheckAndUpdate(key, cfg.MaxRequests, cfg.Window)

		if !allowed {
			now := time.Now().Unix()
			retryAfter := resetAt - now
			if retryAfter < 0 {
				retryAfter = 0
			}
			return rateLimitedResponse(cfg, remaining, resetAt, retryAfter)
		}

		resp := next(ctx)
		if cfg.IncludeHeaders {
			resp = resp.
				Header("X-RateLimit-Limit", strconv.FormatUint(cfg.MaxRequests, 10)).
				Header("X-RateLimit-Remaining", strconv.FormatUint(remaining, 10)).
				Header("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
		}
		return resp
	}
}

func rateLimitedResponse(cfg Config, remaining uint64, resetAt, retryAfter int64) response.Response {
	message := cfg.Message
	if message == "" {
		message = "Too Many Requests. Please try again later."
	}

	resp := response.New().Status(cfg.StatusCode).JSON(map[string]any{
		"error":       "Too Many Requests",
		"message":     message,
		"retry_after": retryAfter,
	})

	if cfg.IncludeHeaders {
		resp = resp.
			Header("X-RateLimit-Limit", strconv.FormatUint(cfg.MaxRequests, 10)).
			Header("X-RateLimit-Remaining", "0").
			Header("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10)).
			Header("Retry-After", strconv.FormatInt(retryAfter, 10))
	}

	return resp
}
