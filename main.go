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

	"github.com/eventix/eventix-be/internal/api"
	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/config"
	"github.com/eventix/eventix-be/internal/database"
	"github.com/eventix/eventix-be/internal/logger"
	"github.com/eventix/eventix-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Env)

	// Set up database: create it if absent, open the bounded pool
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Provisioning and legacy repair. Individual steps log and continue on
	// failure so a partially migrated database never blocks startup.
	database.NewBootstrap(db, cfg).Run(ctx)

	// Token codec shared by the auth service and the route middleware
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)

	// Set up services
	authService := services.NewAuthService(db, tokens)
	eventService := services.NewEventService(db)
	clubService := services.NewClubService(db)
	categoryService := services.NewCategoryService(db)

	// Set up router
	router := api.NewRouter(cfg, tokens, authService, eventService, clubService, categoryService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
