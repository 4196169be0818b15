package main

import (
	"context"
	"github.com/IlyasAtabaev731/finboard/internal/analytics"
	"github.com/IlyasAtabaev731/finboard/internal/api"
	"github.com/IlyasAtabaev731/finboard/internal/config"
	"github.com/IlyasAtabaev731/finboard/internal/lib/logger"
	"github.com/IlyasAtabaev731/finboard/internal/storage/backend"
	"github.com/joho/godotenv"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env, os.Stdout)

	log.Info("Starting application",
		slog.String("env", cfg.Env),
		slog.String("host", cfg.HTTPServer.Host),
		slog.Int("port", cfg.HTTPServer.Port),
		slog.String("storage", cfg.Driver),
	)

	if cfg.JWTSecret == "" {
		log.Error("JWT secret is not configured")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	storage, err := backend.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}

	aggregator := analytics.New(storage, cfg.TopUsers, log)

	apiServer := api.New(cfg, log, storage, aggregator, []byte(cfg.JWTSecret))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		apiServer.MustStart()
	}()

	<-sigChan
	log.Info("Got signal to shutdown server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Stopping server error", "error", err)
	}

	if err := storage.Close(); err != nil {
		log.Error("Closing storage error", "error", err)
	}
}
