// Package file loads the dataset from a local JSON file.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"txstats/internal/core"
	"txstats/internal/sources"
)

type Source struct {
	path string
}

var _ sources.Source = (*Source)(nil)

func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string { return "file" }

func (s *Source) Fetch(ctx context.Context) ([]core.Transaction, error) {
	if s.path == "" {
		return nil, fmt.Errorf("%w: empty file path", sources.ErrSourceNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := sources.DecodeJSON(f)
	if err != nil {
		return nil, err
	}

	size := "unknown"
	if info, err := f.Stat(); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	slog.InfoContext(ctx, "Loaded dataset file", "path", s.path, "payload", size, "rows", len(rows))

	return rows, nil
}
