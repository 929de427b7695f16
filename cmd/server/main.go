// Package main implements the server entry point for the auth service.
// Configuration, the database pool, and the process logger are wired
// here, at the composition root; everything else (repositories,
// services, use cases, controllers) is wired by internal/authapp and
// booted by pkg/weave/server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aras-services/weave/config"
	"github.com/aras-services/weave/internal/authapp"
	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/injects"
	logpkg "github.com/aras-services/weave/pkg/weave/log"
	"github.com/aras-services/weave/pkg/weave/middleware/compression"
	"github.com/aras-services/weave/pkg/weave/middleware/cors"
	"github.com/aras-services/weave/pkg/weave/middleware/ratelimit"
	"github.com/aras-services/weave/pkg/weave/middleware/requestid"
	"github.com/aras-services/weave/pkg/weave/middleware/securityheaders"
	"github.com/aras-services/weave/pkg/weave/middleware/timeout"
	"github.com/aras-services/weave/pkg/weave/server"
	"github.com/aras-services/weave/pkg/weave/weaveconfig"

	"go.uber.org/zap"
)

var (
	version   = "1.1.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func printVersion() {
	fmt.Printf("aras_auth version %s\n", version)
	if buildTime != "unknown" {
		fmt.Printf("Build Time: %s\n", buildTime)
	}
	if gitCommit != "unknown" {
		fmt.Printf("Git Commit: %s\n", gitCommit)
	}
	os.Exit(0)
}

func main() {
	if len(os.Args) > 1 {
		for _, arg := range os.Args[1:] {
			if arg == "--version" || arg == "-v" {
				printVersion()
			}
		}
	}

	// App-level config (DB/JWT/SMTP/Admin) stays on the teacher's own
	// caarlos0/env loader; only the server's own bind/timeout/TLS knobs
	// move to weaveconfig, which is this framework's config surface.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logpkg.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	loader, err := weaveconfig.New("", false)
	if err != nil {
		logger.Fatal("failed to initialize server config loader", zap.Error(err))
	}
	serverCfg, err := loader.LoadServerConfig()
	if err != nil {
		logger.Fatal("failed to load server config", zap.Error(err))
	}

	db, err := pgxpool.New(context.Background(), cfg.GetDSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database successfully")

	authModule := authapp.New(db, authapp.JWTSettings{
		SecretKey:     cfg.JWT.SecretKey,
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})

	builder := server.NewBuilder(container.New(), injects.New()).
		UseLogger(logger).
		UseModule(authModule).
		UseTransportMiddleware(cors.New(cors.DefaultConfig())).
		UseMiddleware(requestid.New(requestid.DefaultConfig())).
		UseMiddleware(securityheaders.New(securityheaders.DefaultConfig())).
		UseMiddleware(timeout.New(timeout.DefaultConfig(60*time.Second), logger.Logger)).
		UseMiddleware(compression.New(compression.DefaultConfig())).
		UseMiddleware(ratelimit.New(ratelimit.DefaultConfig(), ratelimit.NewInMemoryStore())).
		SetBodyLimit(serverCfg.BodyLimit)

	runner, err := builder.Bind(server.Config{
		Addr:            serverCfg.Addr,
		ReadTimeout:     serverCfg.ReadTimeout,
		WriteTimeout:    serverCfg.WriteTimeout,
		ShutdownTimeout: serverCfg.ShutdownTimeout,
		BodyLimit:       serverCfg.BodyLimit,
	})
	if err != nil {
		logger.Fatal("failed to bind server", zap.Error(err))
	}

	if err := runner.Run(); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}
