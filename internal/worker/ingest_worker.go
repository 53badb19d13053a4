package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"txstats/internal/amqp"
	"txstats/internal/core"
)

// Ingester reloads the dataset.
type Ingester interface {
	Run(ctx context.Context) (core.IngestResult, error)
}

// RowCounter reports how many rows the store holds.
type RowCounter interface {
	Count(ctx context.Context) (int64, error)
}

// IngestWorker reloads the dataset on queued requests and on a schedule.
type IngestWorker struct {
	ingester Ingester
	counter  RowCounter
}

func NewIngestWorker(ingester Ingester, counter RowCounter) *IngestWorker {
	return &IngestWorker{ingester: ingester, counter: counter}
}

// HandleIngestMessage processes one queued ingest request.
func (w *IngestWorker) HandleIngestMessage(ctx context.Context, msg *amqp.IngestRequestMessage) error {
	slog.InfoContext(ctx, "Processing ingest request",
		"message_id", msg.ID,
		"requested_by", msg.RequestedBy,
		"queued_for", time.Since(msg.Timestamp).Round(time.Millisecond))

	res, err := w.ingester.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest request %s: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Ingest request completed",
		"message_id", msg.ID,
		"inserted", res.Inserted)
	return nil
}

// StartupIngestCheck loads the dataset when the store is empty.
func (w *IngestWorker) StartupIngestCheck(ctx context.Context) error {
	n, err := w.counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("count stored rows: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Store already populated, skipping startup ingestion", "rows", n)
		return nil
	}

	slog.InfoContext(ctx, "Store is empty, running startup ingestion")
	if _, err := w.ingester.Run(ctx); err != nil {
		return fmt.Errorf("startup ingestion: %w", err)
	}
	return nil
}

// RunPeriodic reloads the dataset every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (w *IngestWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Periodic ingestion enabled", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.ingester.Run(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic ingestion failed", "error", err)
			}
		}
	}
}
