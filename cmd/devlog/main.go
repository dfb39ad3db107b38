// Package main is the entry point for the devlog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devlog/internal/cache"
	"devlog/internal/config"
	"devlog/internal/database"
	"devlog/internal/drafts"
	"devlog/internal/handlers"
	"devlog/internal/middleware"
	"devlog/internal/posts"
	"devlog/internal/router"
	"devlog/internal/store"
)

func main() {
	slog.SetDefault(bootstrapLogger())

	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, logCloser := newLogger(cfg, os.Stdout)
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	if err := run(cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// Document store: PostgreSQL, or in-process maps for local hacking.
	var (
		postRepo  posts.Repository
		draftRepo drafts.Repository
		pinger    handlers.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		slog.Warn("using in-memory store, data is lost on exit")
		postRepo = store.NewMemoryPostStore()
		draftRepo = store.NewMemoryDraftStore()
	default:
		db, err := openPostgres(startCtx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		postRepo = store.NewPostStore(db)
		draftRepo = store.NewDraftStore(db)
		pinger = db
	}

	// Valkey is optional in development; without it every read hits the store.
	var postCache posts.Cache
	attempts := uint64(5)
	if cfg.IsDev() {
		attempts = 1
	}
	valkeyClient, err := cache.ConnectValkey(startCtx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, attempts)
	switch {
	case err == nil:
		defer valkeyClient.Close()
		pc := cache.NewPostCache(valkeyClient, cfg.CacheTTL)
		pc.InvalidateAll(startCtx)
		postCache = pc
	case cfg.IsDev():
		slog.Warn("valkey unavailable, post cache disabled", "error", err)
	default:
		return err
	}

	postSvc := posts.NewService(postRepo, postCache)
	draftSvc := drafts.NewService(draftRepo)
	autosaver := drafts.NewAutosaver(draftSvc, cfg.AutosaveDelay)

	opts := router.Options{CORSOrigins: cfg.CORSOrigins, Health: pinger}
	if cfg.WriteRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute)
		defer limiter.Stop()
		opts.WriteLimiter = limiter
	}

	r := router.New(opts,
		handlers.NewPosts(postSvc),
		handlers.NewDrafts(draftSvc, autosaver, postSvc),
	)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		autosaver.Stop()
		return err
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownErr := srv.Shutdown(ctx)

	// Pending autosaves are dropped; in-flight ones finish before the store
	// connection closes.
	autosaver.Stop()

	if shutdownErr != nil {
		return shutdownErr
	}
	slog.Info("server stopped gracefully")
	return nil
}

// openPostgres connects, migrates and, in development, seeds the database.
func openPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
