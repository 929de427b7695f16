// Package timeout implements the timeout middleware contract: wrap the
// rest of the pipeline in a deadline and respond with a configurable
// status if it elapses before the handler finishes.
package timeout

import (
	"net/http"
	"strings"
	"time"

	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
	"go.uber.org/zap"
)

// Config configures the timeout middleware.
type Config struct {
	Timeout               time.Duration
	StatusCode            int
	Message               string
	SkipPaths             []string
	SkipPathPrefixes      []string
	IncludeTimeoutHeader  bool
	TimeoutHeaderName     string
	LogTimeouts           bool
}

// DefaultConfig returns a config with timeout d, responding 408 on elapse.
func DefaultConfig(d time.Duration) Config {
	return Config{
		Timeout:           d,
		StatusCode:        http.StatusRequestTimeout,
		TimeoutHeaderName: "X-Timeout-Duration",
		LogTimeouts:       true,
	}
}

// New builds the middleware function. logger may be nil, in which case
// timeouts are silently not logged regardless of cfg.LogTimeouts.
func New(cfg Config, logger *zap.Logger) func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
	if cfg.StatusCode == 0 {
		cfg.StatusCode = http.StatusRequestTimeout
	}
	if cfg.TimeoutHeaderName == "" {
		cfg.TimeoutHeaderName = "X-Timeout-Duration"
	}

	shouldSkip := func(path string) bool {
		for _, p := range cfg.SkipPaths {
			if path == p {
				return true
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
		if shouldSkip(ctx.Path()) || cfg.Timeout <= 0 {
			return next(ctx)
		}

		done := make(chan response.Response, 1)
		go func() {
			done <- next(ctx)
		}()

		select {
		case resp := <-done:
			if cfg.IncludeTimeoutHeader {
				resp = resp.Header(cfg.TimeoutHeaderName, cfg.Timeout.String())
			}
			return resp
		case <-time.After(cfg.Timeout):
			if cfg.LogTimeouts && logger != nil {
				logger.Warn("request timed out",
					zap.String("path", ctx.Path()),
					zap.Duration("timeout", cfg.Timeout),
				)
			}
			return timeoutResponse(cfg)
		}
	}
}

func timeoutResponse(cfg Config) response.Response {
	message := cfg.Message
	if message == "" {
		message = "Request timed out"
	}
	return response.New().Status(cfg.StatusCode).JSON(map[string]any{
		"error":           "Request Timeout",
		"message":         message,
		"timeout_seconds": cfg.Timeout.Seconds(),
		"status":          cfg.StatusCode,
	})
}
