package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"crypto-travel/internal/config"
	"crypto-travel/internal/logger"
	"crypto-travel/internal/router"
	"crypto-travel/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Starting crypto-travel API")

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		log.Fatal().Msg("SUPABASE_URL and SUPABASE_KEY are required")
	}

	st, err := store.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Supabase")
	}

	r := router.SetupRouter(cfg, st, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
