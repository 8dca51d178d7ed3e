package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/hoyorecord/internal/api"
	"github.com/mcoot/hoyorecord/internal/config"
	"github.com/mcoot/hoyorecord/internal/factory"
)

func main() {
	// Bootstrap logger until the configured one is built
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Defaults, then hoyorecord.yaml or $HOYORECORD_CONFIG, then HOYORECORD_* env
	cfg, err := config.Load("")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factory.Config{App: cfg, Logger: logger})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	if id, err := app.AccountID(); err != nil {
		logger.Warn("no account id available, record endpoints will fail", slog.String("error", err.Error()))
	} else {
		logger.Info("serving account", slog.Int64("account_id", id), slog.String("storage", cfg.Storage.Type))
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Sessions:     app,
		Storage:      app.Storage,
		Registry:     app.Registry,
		APITokenHash: cfg.Server.APITokenHash,
	})
	if cfg.Server.APITokenHash == "" {
		logger.Warn("server.api_token_hash is not set, API is unauthenticated")
	}

	// Create server
	server := api.NewServer(router, api.ServerConfigFrom(cfg.Server), logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
