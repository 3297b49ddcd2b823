package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbraun/myflix-be/internal/api"
	"github.com/mbraun/myflix-be/internal/auth"
	"github.com/mbraun/myflix-be/internal/config"
	"github.com/mbraun/myflix-be/internal/database"
	"github.com/mbraun/myflix-be/internal/logger"
	"github.com/mbraun/myflix-be/internal/metrics"
	"github.com/mbraun/myflix-be/internal/monitoring"
	"github.com/mbraun/myflix-be/internal/ratelimit"
	"github.com/mbraun/myflix-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	auth.Init(cfg.JWTSecret, cfg.TokenTTL)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}
	if err := database.Seed(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed movie catalog")
	}

	// Set up services
	userService := services.NewUserService(db)
	movieService := services.NewMovieService(db)

	// Set up metrics and the background stats updater
	collector := metrics.NewCollector()
	statUpdater := monitoring.NewStatUpdater(db, collector)
	go statUpdater.Run()

	// Per-client rate limiting
	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Set up router
	router := api.NewRouter(userService, movieService, collector, limiter, cfg.AllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	limiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
