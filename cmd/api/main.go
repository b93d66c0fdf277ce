// Command api is the player ratings API server.
//
// Usage:
//
//	notes-api
//	API_PORT=8080 notes-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/notesdureal/notes-data/internal/api"
	"github.com/notesdureal/notes-data/internal/cache"
	"github.com/notesdureal/notes-data/internal/config"
	"github.com/notesdureal/notes-data/internal/maintenance"
	"github.com/notesdureal/notes-data/internal/name"
	"github.com/notesdureal/notes-data/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Name normalization tables
	tables := name.DefaultTables()
	if cfg.AliasFile != "" {
		tables, err = name.LoadTables(cfg.AliasFile)
		if err != nil {
			logger.Error("Failed to load alias file", "path", cfg.AliasFile, "error", err)
			os.Exit(1)
		}
	}
	names := name.New(tables)

	// Open storage backend
	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Periodic statistics recompute (disabled unless STATS_REFRESH_MINUTES > 0)
	go maintenance.Start(ctx, s, appCache, names, maintenance.Config{
		StatsRefreshInterval: cfg.StatsRefresh,
	}, logger)

	// Create router
	router := api.NewRouter(s, appCache, cfg, names)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Notes du Real API",
			"addr", addr,
			"environment", cfg.Environment,
			"club", cfg.ClubName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
