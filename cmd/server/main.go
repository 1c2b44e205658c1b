package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/content-feed-api/internal/api"
	"github.com/content-feed-api/internal/config"
	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
	"github.com/content-feed-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting content feed API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize store and merge in the persisted snapshot, if any
	st := store.New()
	snap, err := snapshot.Load(cfg.Snapshot.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Snapshot.Path).Msg("Failed to load snapshot")
	}
	if snap != nil {
		st.Restore(snap)
		users, articles, comments := st.Counts()
		log.Info().
			Str("path", cfg.Snapshot.Path).
			Int("users", users).
			Int("articles", articles).
			Int("comments", comments).
			Msg("Snapshot loaded")
	}

	// Persistence bridge
	persist := snapshot.NewWriter(cfg.Snapshot.Path, log)

	// Initialize router
	router := api.NewRouter(st, persist, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Flush a final snapshot so in-flight async writes are not the last word
	if cfg.Snapshot.FlushOnShutdown {
		if err := persist.Save(st.Snapshot()); err != nil {
			log.Error().Err(err).Msg("Failed to flush final snapshot")
		}
	}

	log.Info().Msg("Server exited gracefully")
}
