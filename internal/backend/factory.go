// Package backend selects and builds the dataset source from configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"txstats/internal/config"
	"txstats/internal/sources"
	"txstats/internal/sources/file"
	gsource "txstats/internal/sources/google"
	"txstats/internal/sources/remote"
)

// Config holds the settings needed by every source type.
type Config struct {
	Type    SourceType
	URL     string
	Timeout time.Duration
	File    string
	Sheets  gsource.Config
}

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	st := SourceType(appConfig.SourceType)
	if !st.IsValid() {
		return Config{}, fmt.Errorf("invalid source type in config: %s", appConfig.SourceType)
	}

	return Config{
		Type:    st,
		URL:     appConfig.SourceURL,
		Timeout: appConfig.SourceTimeout,
		File:    appConfig.SourceFile,
		Sheets: gsource.Config{
			SpreadsheetID:      appConfig.GoogleSpreadsheetID,
			SheetName:          appConfig.GoogleSheetName,
			ServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
			ServiceAccountFile: appConfig.GoogleServiceAccountFile,
		},
	}, nil
}

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, cfg Config) (sources.Source, error) {
	switch cfg.Type {
	case RemoteSource:
		if cfg.URL == "" {
			return nil, fmt.Errorf("%w: remote source needs a URL", sources.ErrSourceNotConfigured)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		f.logger.Info("Initialized remote source", "url", cfg.URL, "timeout", timeout)
		return remote.New(cfg.URL, timeout), nil

	case FileSource:
		if cfg.File == "" {
			return nil, fmt.Errorf("%w: file source needs a path", sources.ErrSourceNotConfigured)
		}
		f.logger.Info("Initialized file source", "path", cfg.File)
		return file.New(cfg.File), nil

	case SheetsSource:
		src, err := gsource.New(ctx, cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
		}
		return src, nil

	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}
