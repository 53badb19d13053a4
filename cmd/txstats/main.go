package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"txstats/internal/amqp"
	"txstats/internal/cli"
	"txstats/internal/core"
	apphttp "txstats/internal/http"
	applog "txstats/internal/log"
	"txstats/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(os.Getenv("LOG_LEVEL")))
	logger := cli.SetupLogger(cfg.LogLevel)

	store := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer store.Close()

	ingester := cli.InitIngestion(context.Background(), logger, cfg, store)
	reports := services.NewReportService(store)

	deps := apphttp.Deps{
		Ingester:           ingester,
		Reports:            reports,
		Combiner:           services.NewCombinedService(ingester, reports),
		Store:              store,
		Logger:             logger.WithComponent(applog.ComponentHTTP),
		CombinedMonth:      core.ParseMonth(cfg.CombinedMonth),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	// Asynchronous ingestion is optional.
	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		deps.Publisher = amqpClient
		logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - POST /ingestions will answer 503")
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting txstats server",
		"port", cfg.Port,
		applog.FieldSource, cfg.SourceType,
		"db_path", cfg.SQLiteDBPath,
		"combined_month", deps.CombinedMonth.String())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
