package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perrijuan/sistema-bancario/internal/app"
	"github.com/perrijuan/sistema-bancario/internal/config"
	"github.com/perrijuan/sistema-bancario/internal/handler"
	"github.com/perrijuan/sistema-bancario/internal/logging"
	"github.com/perrijuan/sistema-bancario/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("bank-api", cfg.LogLevel, cfg.AppEnv, os.Stdout)

	if err := run(cfg, logger); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()
	a := app.New(cfg, logger)
	defer a.Close()

	engine, err := a.Engine(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if cfg.SeedDefaultAccounts {
		created, err := app.SeedDefaultAccounts(ctx, engine)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		slog.Info("default accounts seeded", "created", created)
	}

	health := handler.NewHealthHandler(a)

	bank := http.NewServeMux()
	handler.NewBankHandler(engine).Routes(bank)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)
	mux.Handle("/api/", middleware.Serialize(bank))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Tracing(middleware.Logging(middleware.Recovery(mux))),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("run: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("run: shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
