package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"txstats/internal/config"
	"txstats/internal/sources"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{SourceType: "ftp"}); err == nil {
		t.Error("unknown source type should fail")
	}

	cfg, err := FromAppConfig(&config.Config{
		SourceType:          "sheets",
		GoogleSpreadsheetID: "abc",
		GoogleSheetName:     "Tx",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SheetsSource || cfg.Sheets.SpreadsheetID != "abc" || cfg.Sheets.SheetName != "Tx" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestCreateSource(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  error
	}{
		{"remote", Config{Type: RemoteSource, URL: "http://example.invalid/data.json", Timeout: time.Second}, "remote", nil},
		{"remote without url", Config{Type: RemoteSource}, "", sources.ErrSourceNotConfigured},
		{"file", Config{Type: FileSource, File: "data.json"}, "file", nil},
		{"file without path", Config{Type: FileSource}, "", sources.ErrSourceNotConfigured},
		{"sheets without id", Config{Type: SheetsSource}, "", sources.ErrSourceNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := f.CreateSource(ctx, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateSource() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSource() error = %v", err)
			}
			if src.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", src.Name(), tt.wantName)
			}
		})
	}

	if _, err := f.CreateSource(ctx, Config{Type: "ftp"}); err == nil {
		t.Error("unknown type should fail")
	}
}
