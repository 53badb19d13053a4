package main

import (
	"context"
	"errors"
	"os"
	"time"

	"txstats/internal/amqp"
	"txstats/internal/cli"
	applog "txstats/internal/log"
	"txstats/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(os.Getenv("LOG_LEVEL")))
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentWorker)

	logger.Info("Starting ingest-worker", applog.FieldSource, cfg.SourceType)

	store := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer store.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	ingestWorker := worker.NewIngestWorker(cli.InitIngestion(ctx, logger, cfg, store), store)

	if cfg.IngestOnStart {
		logger.Info("Performing startup ingest check...")
		if err := ingestWorker.StartupIngestCheck(ctx); err != nil {
			// keep running, the next request or tick retries
			logger.Error("Startup ingest failed", applog.FieldError, err)
		}
	}

	if cfg.IngestInterval > 0 {
		go ingestWorker.RunPeriodic(ctx, cfg.IngestInterval)
		logger.Info("Periodic ingestion enabled", "interval", cfg.IngestInterval)
	}

	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			if err := amqpClient.ConsumeIngestRequests(ctx, ingestWorker.HandleIngestMessage); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", applog.FieldError, err)
			}
		}()
	} else if cfg.IngestInterval <= 0 {
		logger.Warn("Neither AMQP_URL nor INGEST_INTERVAL is set - worker has nothing to do")
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
