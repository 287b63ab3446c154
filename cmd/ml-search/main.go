package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Milesbeckerle/mercado-livre-api/internal/config"
	"github.com/Milesbeckerle/mercado-livre-api/internal/server"
	"github.com/Milesbeckerle/mercado-livre-api/pkg/client"
	"github.com/Milesbeckerle/mercado-livre-api/pkg/logging"
)

func main() {
	// Load .env file if present (ignore error, env vars can be set directly)
	_ = godotenv.Load()

	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Pretty = cfg.LogPretty
	logging.Setup(logCfg)

	logger := logging.NewLogger("main")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	mlClient, err := client.New(cfg.ClientConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create marketplace client")
	}

	handler := server.NewHandler(mlClient, cfg.MaxLimit)
	srv := server.New(handler.Router(), cfg.Port)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("site_id", cfg.SiteID).
		Str("base_url", cfg.BaseURL).
		Msg("Search service started")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
