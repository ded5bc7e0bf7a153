package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mwhitehouse/airwave/internal/config"
	"github.com/mwhitehouse/airwave/internal/db"
	"github.com/mwhitehouse/airwave/internal/logger"
	"github.com/mwhitehouse/airwave/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet, write to stderr directly
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	logger.Log.Info().
		Str("timezone", cfg.Station.Timezone).
		Str("day_start", cfg.Station.DayStart).
		Msg("Airwave schedule service starting")

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get database handle for migrations")
	}
	if err := db.RunMigrations(sqlDB, "file://./migrations"); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	srv, err := server.New(cfg, database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	// Run the server in the background so we can catch signals
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
