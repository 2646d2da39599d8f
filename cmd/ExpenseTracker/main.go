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

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/server"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat).With(logger.FieldComponent, logger.ComponentApp)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", logger.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration, update it to start the server: %w", err)
	}
	if cfg.InsecureJWTSecret {
		log.Warn("JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		PasswordHasher: user.NewBcryptHasher(cfg.BcryptCost),
		JWTManager:     auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn),
		Logger:         log,
	}

	switch cfg.DataBackend {
	case config.BackendMemory:
		if cfg.IsProduction() {
			log.Warn("in-memory storage selected in production")
		}
		store := infrastructure.NewMemoryStore()
		deps.Users = user.NewMemoryRepository()
		deps.Categories = store
		deps.Expenses = store
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		storageLog := log.With(logger.FieldComponent, logger.ComponentStorage)
		dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, storageLog)
		if err != nil {
			return fmt.Errorf("could not initialize database: %w", err)
		}
		defer dbService.Close()

		if err := database.RunMigrations(dbService.DB); err != nil {
			return fmt.Errorf("could not apply migrations: %w", err)
		}

		deps.Users = user.NewUserRepository(dbService.DB)
		deps.Categories = infrastructure.NewCategoryRepository(dbService.DB)
		deps.Expenses = infrastructure.NewExpenseRepository(dbService.DB)
		deps.Health = dbService
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(deps).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "backend", cfg.DataBackend, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
