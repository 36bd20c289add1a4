// Package main is the entry point for the discovery API server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rootv890/discovery-5/internal/auth"
	"github.com/rootv890/discovery-5/internal/cache"
	"github.com/rootv890/discovery-5/internal/catalog"
	"github.com/rootv890/discovery-5/internal/config"
	"github.com/rootv890/discovery-5/internal/database"
	"github.com/rootv890/discovery-5/internal/handlers"
	"github.com/rootv890/discovery-5/internal/middleware"
	"github.com/rootv890/discovery-5/internal/router"
	"github.com/rootv890/discovery-5/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the catalog read cache. The API works without
	// it, so a connection failure only disables caching.
	var catalogCache *cache.CatalogCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, catalog cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		catalogCache = cache.NewCatalogCache(valkeyClient, cache.DefaultCatalogTTL)
	}

	// Initialize data stores.
	platformStore := store.NewPlatformStore(db)
	categoryStore := store.NewCategoryStore(db)
	associationStore := store.NewAssociationStore(db)
	toolStore := store.NewToolStore(db)
	userStore := store.NewUserStore(db)
	waitlistStore := store.NewWaitlistStore(db)
	voteStore := store.NewVoteStore(db)
	commentStore := store.NewCommentStore(db)
	collectionStore := store.NewCollectionStore(db)

	// The catalog layer owns all association semantics.
	manager := catalog.NewManager(db, categoryStore, platformStore, associationStore, toolStore, catalogCache)
	query := catalog.NewQuery(categoryStore, platformStore, associationStore, toolStore, catalogCache)

	// JWT issuer for access tokens.
	issuer := auth.NewIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)

	// Rate limiter for the unauthenticated write endpoints.
	limiter := middleware.NewRateLimiter(20, time.Minute)
	defer limiter.Stop()

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Waitlist:    handlers.NewWaitlist(waitlistStore),
		Auth:        handlers.NewAuth(userStore, issuer),
		Platforms:   handlers.NewPlatforms(platformStore, query),
		Categories:  handlers.NewCategories(categoryStore, manager, query),
		Tools:       handlers.NewTools(toolStore, voteStore, commentStore, manager, query),
		Comments:    handlers.NewComments(commentStore),
		Collections: handlers.NewCollections(collectionStore, toolStore),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(issuer, limiter, h)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
