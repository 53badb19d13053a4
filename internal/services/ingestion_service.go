package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"txstats/internal/core"
	applog "txstats/internal/log"
	"txstats/internal/sources"
)

// InitializedMessage is returned after every successful load.
const InitializedMessage = "Database initialized successfully."

// DatasetWriter replaces the stored dataset.
type DatasetWriter interface {
	ReplaceAll(ctx context.Context, rows []core.Transaction) (int, error)
}

// IngestionService fetches the dataset from a source and reloads the store.
// Runs are serialized within the process.
type IngestionService struct {
	source sources.Source
	store  DatasetWriter

	mu sync.Mutex

	runs     atomic.Int64
	failures atomic.Int64
	lastRows atomic.Int64
	lastRun  atomic.Int64 // unix nanos
}

func NewIngestionService(source sources.Source, store DatasetWriter) *IngestionService {
	return &IngestionService{source: source, store: store}
}

// Run fetches the dataset and replaces the stored rows. On failure the
// previous dataset is kept.
func (s *IngestionService) Run(ctx context.Context) (core.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.runs.Add(1)

	rows, err := s.source.Fetch(ctx)
	if err != nil {
		s.failures.Add(1)
		return core.IngestResult{}, fmt.Errorf("fetch dataset from %s: %w", s.source.Name(), err)
	}

	skipped := 0
	for _, r := range rows {
		if r.Validate() != nil {
			skipped++
		}
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Dataset rows without dateOfSale will never match a month filter",
			"source", s.source.Name(),
			"rows", skipped)
	}

	n, err := s.store.ReplaceAll(ctx, rows)
	if err != nil {
		s.failures.Add(1)
		return core.IngestResult{}, fmt.Errorf("load dataset: %w", err)
	}

	s.lastRows.Store(int64(n))
	s.lastRun.Store(time.Now().UnixNano())

	res := core.IngestResult{
		Message:  InitializedMessage,
		Inserted: n,
		Source:   s.source.Name(),
		Duration: time.Since(start),
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogIngestion(ctx, res.Source, n, res.Duration.Milliseconds())

	return res, nil
}

// IngestionStats is a snapshot of ingestion counters.
type IngestionStats struct {
	Runs     int64
	Failures int64
	LastRows int64
	LastRun  time.Time
}

func (s *IngestionService) Stats() IngestionStats {
	st := IngestionStats{
		Runs:     s.runs.Load(),
		Failures: s.failures.Load(),
		LastRows: s.lastRows.Load(),
	}
	if ns := s.lastRun.Load(); ns > 0 {
		st.LastRun = time.Unix(0, ns)
	}
	return st
}
