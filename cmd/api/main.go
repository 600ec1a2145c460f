package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"starterapi/internal/config"
	"starterapi/internal/http/handler"
	"starterapi/internal/http/server"
	"starterapi/internal/logging"
	"starterapi/internal/otel"
	"starterapi/internal/repository/memory"
	"starterapi/internal/service"
)

// @title Starter API
// @version 1.0.0
// @description Web API starter with health checks, docs and an example items resource.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	store, err := memory.NewItemMemory(cfg.ItemStoreCapacity)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize item store")
	}
	items := service.NewItemService(store)

	app, err := server.New(cfg, server.Options{
		Logger: logger,
		Items:  items,
		Checks: map[string]handler.ReadinessCheck{
			"item_store": store.Ping,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("env", cfg.Env).
			Str("version", cfg.Version).
			Msg("server_starting")
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server_failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown_requested")
	}

	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		logger.Error().Err(err).Msg("server_shutdown_failed")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("tracing_shutdown_failed")
	}

	logger.Info().Msg("server_stopped")
}
