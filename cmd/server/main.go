// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyunix/go-sqlchat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := ProvideLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := InitializeApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting",
		"port", cfg.ServerPort,
		"db_driver", cfg.Database.Driver,
		"ai_provider", cfg.AI.Provider,
		"ai_model", cfg.AI.Model,
		"sandbox_enabled", app.Sandbox.Enabled())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server startup failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := app.Sandbox.Close(); err != nil {
		logger.Warn("sandbox close failed", "error", err)
	}
	logger.Info("server stopped")
}
