package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aras-services/weave/pkg/weave/injects"
	"github.com/aras-services/weave/pkg/weave/log"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/router"
)

// Runner owns the bound server: the net/http.Server wrapping the
// router, plus everything that needs a shutdown pass (modules, the root
// injects registry, user-registered shutdown hooks). It is produced by
// Builder.Bind and is immutable other than the underlying *http.Server's
// own connection bookkeeping, matching spec §5's "router is shared
// immutably after startup" rule.
//
// The original (original_source/src/server/runner.rs) hand-rolls the
// accept loop, per-connection task spawn, and a watch-channel shutdown
// signal over a raw tokio::net::TcpListener, because Rust's ecosystem
// has no equivalent of net/http.Server. Go's standard library already
// provides exactly that connection lifecycle — accept loop, per-request
// goroutine, keep-alive, graceful Shutdown(ctx) that waits for
// in-flight requests to finish — so Runner wraps http.Server rather
// than reimplementing it, the same way the teacher's own
// cmd/server/main.go does (ListenAndServe in a goroutine,
// signal.Notify, context.WithTimeout, Server.Shutdown).
type Runner struct {
	httpServer *http.Server
	cfg        Config
	router     *router.Router
	modules    []module.Module
	injects    *injects.Injects
	services   []any
	onStartup  []func()
	onShutdown []func()
	logger     *log.Logger
}

func newRunner(handler http.Handler, r *router.Router, cfg Config, modules []module.Module, inj *injects.Injects, services []any, onStartup, onShutdown []func(), logger *log.Logger) (*Runner, error) {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.TLS != nil {
		minVersion := cfg.TLS.MinVersion
		if minVersion == 0 {
			minVersion = tls.VersionTLS12
		}
		maxVersion := cfg.TLS.MaxVersion
		if maxVersion == 0 {
			maxVersion = tls.VersionTLS13
		}
		alpn := cfg.TLS.ALPNProtocols
		if len(alpn) == 0 {
			alpn = []string{"h2", "http/1.1"}
		}

		cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("weave/server: loading TLS certificate: %w", err)
		}

		httpServer.TLSConfig = &tls.Config{
			MinVersion:   minVersion,
			MaxVersion:   maxVersion,
			NextProtos:   alpn,
			Certificates: []tls.Certificate{cert},
		}
	}

	return &Runner{
		httpServer: httpServer,
		cfg:        cfg,
		router:     r,
		modules:    modules,
		injects:    inj,
		services:   services,
		onStartup:  onStartup,
		onShutdown: onShutdown,
		logger:     logger,
	}, nil
}

// Addr reports the configured bind address.
func (r *Runner) Addr() string { return r.cfg.Addr }

// Router exposes the bound router, mainly for diagnostics (RouteInfo).
func (r *Runner) Router() *router.Router { return r.router }

func (r *Runner) info(msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.Info(msg, fields...)
	}
}

func (r *Runner) errorLog(msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.Error(msg, fields...)
	}
}

// Run blocks until a SIGINT/SIGTERM is received, then drains connections
// within ShutdownTimeout. It is the common case: spec §4.9's "shutdown
// watch subscribed on signal" contract, implemented via
// signal.NotifyContext instead of a hand-rolled watch channel.
func (r *Runner) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.RunUntil(ctx)
}

// RunUntil blocks until ctx is cancelled (by a signal, a test deadline,
// or a caller-supplied cancellation), then drains connections within
// ShutdownTimeout. This is the Go analogue of the original's
// run_until(shutdown_signal: impl Future).
func (r *Runner) RunUntil(ctx context.Context) error {
	for _, hook := range r.onStartup {
		hook()
	}
	for _, m := range r.modules {
		if initable, ok := m.(module.Initializable); ok {
			initable.OnInit()
		}
	}

	scheme := "http"
	if r.httpServer.TLSConfig != nil {
		scheme = "https"
	}
	r.info("starting server", zap.String("addr", r.cfg.Addr), zap.String("scheme", scheme))

	serveErr := make(chan error, 1)
	go func() {
		var err error
		if r.httpServer.TLSConfig != nil {
			err = r.httpServer.ListenAndServeTLS("", "")
		} else {
			err = r.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			r.errorLog("server failed to start", zap.Error(err))
			return fmt.Errorf("weave/server: listen: %w", err)
		}
	case <-ctx.Done():
		r.info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()

	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.errorLog("graceful shutdown exceeded timeout, forcing close", zap.Error(err))
		_ = r.httpServer.Close()
	}

	r.runShutdownHooks()
	r.info("server exited")
	return nil
}

func (r *Runner) runShutdownHooks() {
	for _, hook := range r.onShutdown {
		hook()
	}
	for _, m := range r.modules {
		if shutdownable, ok := m.(module.Shutdownable); ok {
			shutdownable.OnShutdown()
		}
	}
	for _, svc := range r.services {
		if shutdownable, ok := svc.(injects.Shutdownable); ok {
			shutdownable.OnShutdown()
		}
	}
	r.injects.OnShutdown()
}
