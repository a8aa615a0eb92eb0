// Copyright (c) 2026 Lurnex. All rights reserved.

// Command api is the entry point for the Lurnex site content API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Run database migrations when the store is PostgreSQL (idempotent).
//  4. Open the content store and the optional Redis read cache.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lurnex/site/internal/api"
	"github.com/lurnex/site/internal/blog"
	"github.com/lurnex/site/internal/comment"
	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/config"
	"github.com/lurnex/site/internal/platform/constants"
	"github.com/lurnex/site/internal/platform/migration"
	"github.com/lurnex/site/internal/taxonomy"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String(constants.FieldApp, constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("content_store", cfg.ContentStore),
		slog.Bool("cache_enabled", cfg.RedisURL != ""),
		slog.Duration("revalidate", cfg.RevalidateInterval),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	if cfg.ContentStore == config.StorePostgres {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 4. Content Store ──────────────────────────────────────────────────
	backend, err := content.Open(startupCtx, cfg, log)
	must(log, err, "open content store")
	defer func() {
		log.Info("closing content store")
		backend.Close()
	}()

	// ── 5. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		StoreName:  backend.Name,
		CheckStore: backend.PingStore,
		CheckCache: backend.CachePinger(),
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	// Catalog reads go through the cache. Comments and the backfill use the
	// store directly so they always see the latest writes.
	blogService := blog.NewService(backend.Reads, cfg.AssetBaseURL, log)
	commentService := comment.NewService(backend.Store, log)

	taxonomyService := taxonomy.NewService(backend.Store, log)
	if backend.Cache != nil {
		taxonomyService.WithInvalidator(backend.Cache)
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Blog:      blog.NewHandler(blogService),
		Comment:   comment.NewHandler(commentService),
		Taxonomy:  taxonomy.NewHandler(taxonomyService),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
