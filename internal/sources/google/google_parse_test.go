package google

import (
	"context"
	"errors"
	"testing"

	"txstats/internal/sources"
)

func TestParseTransactions(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Title", "Description", "Price", "Category"},
		{"2022-01-05T10:00:00Z", "Shirt", "cotton", "50", "A"},
		{"2022-01-12T10:00:00Z", "Gift card", "", "", "A"},
		{},
		{"2022-01-20T10:00:00Z", "Backpack", "laptop", "249,99", "B"},
		{"2022-02-01T10:00:00Z", "Short row"},
	}

	rows, err := parseTransactions(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0].ProductTitle != "Shirt" || rows[0].Price == nil || *rows[0].Price != 50 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Price != nil {
		t.Errorf("empty price should be nil, got %v", *rows[1].Price)
	}
	if rows[2].Price == nil || *rows[2].Price != 249.99 {
		t.Errorf("decimal comma price = %v", rows[2].Price)
	}
	if rows[3].Category != "" || rows[3].Price != nil {
		t.Errorf("short row should have empty trailing cells: %+v", rows[3])
	}
}

func TestParseTransactions_CanonicalHeaders(t *testing.T) {
	values := [][]interface{}{
		{"productTitle", "dateOfSale", "price", "category", "productDescription"},
		{"Ring", "2022-05-02T00:00:00Z", 999.0, "jewelery", "gold"},
	}
	rows, err := parseTransactions(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(rows) != 1 || rows[0].DateOfSale != "2022-05-02T00:00:00Z" || *rows[0].Price != 999 || rows[0].ProductDescription != "gold" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestParseTransactions_Errors(t *testing.T) {
	if rows, err := parseTransactions(nil); err != nil || len(rows) != 0 {
		t.Errorf("empty sheet = %v, %v", rows, err)
	}

	_, err := parseTransactions([][]interface{}{{"Title", "Category"}})
	if !errors.Is(err, sources.ErrMalformedPayload) {
		t.Errorf("missing header error = %v", err)
	}

	_, err = parseTransactions([][]interface{}{
		{"Date", "Price"},
		{"2022-01-01", "ten"},
	})
	if !errors.Is(err, sources.ErrMalformedPayload) {
		t.Errorf("bad price error = %v", err)
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := New(context.Background(), Config{}); !errors.Is(err, sources.ErrSourceNotConfigured) {
		t.Errorf("missing spreadsheet id error = %v", err)
	}
	if _, err := New(context.Background(), Config{SpreadsheetID: "abc"}); !errors.Is(err, sources.ErrSourceNotConfigured) {
		t.Errorf("missing credentials error = %v", err)
	}
}
