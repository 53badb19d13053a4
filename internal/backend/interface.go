package backend

import (
	"context"

	"txstats/internal/sources"
)

// SourceType names a dataset source.
type SourceType string

const (
	RemoteSource SourceType = "remote"
	SheetsSource SourceType = "sheets"
	FileSource   SourceType = "file"
)

func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is known
func (st SourceType) IsValid() bool {
	switch st {
	case RemoteSource, SheetsSource, FileSource:
		return true
	default:
		return false
	}
}

// Factory builds the configured dataset source.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (sources.Source, error)
}
