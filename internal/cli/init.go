// Package cli provides the initialization steps shared by cmd/txstats and
// cmd/ingest-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"txstats/internal/backend"
	"txstats/internal/config"
	applog "txstats/internal/log"
	"txstats/internal/services"
	"txstats/internal/sources"
	"txstats/internal/storage"
)

// SetupLogger builds the process logger for level and makes it the slog default.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the store at dbPath, applying migrations.
// Exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// InitSource builds the configured ingestion source. Exits the process on failure.
func InitSource(ctx context.Context, logger *applog.Logger, cfg *config.Config) sources.Source {
	srcCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid source configuration", applog.FieldError, err)
		os.Exit(1)
	}
	src, err := backend.NewFactory(logger.Logger).CreateSource(ctx, srcCfg)
	if err != nil {
		logger.Error("Failed to initialize ingestion source", applog.FieldError, err, applog.FieldSource, cfg.SourceType)
		os.Exit(1)
	}
	return src
}

// InitIngestion wires the configured source to the store.
func InitIngestion(ctx context.Context, logger *applog.Logger, cfg *config.Config, store *storage.SQLiteRepository) *services.IngestionService {
	return services.NewIngestionService(InitSource(ctx, logger, cfg), store)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
