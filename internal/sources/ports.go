// Package sources defines where the transaction dataset is fetched from.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"txstats/internal/core"
)

// Source fetches the complete transaction dataset.
type Source interface {
	Fetch(ctx context.Context) ([]core.Transaction, error)
	// Name identifies the source in logs.
	Name() string
}

var (
	ErrUnexpectedStatus    = errors.New("unexpected response status")
	ErrSourceNotConfigured = errors.New("source not configured")
	ErrMalformedPayload    = errors.New("malformed dataset payload")
)

// DecodeJSON reads a JSON array of transactions. Unknown fields are ignored
// and a missing or null price decodes as nil.
func DecodeJSON(r io.Reader) ([]core.Transaction, error) {
	var rows []core.Transaction
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	for i := range rows {
		rows[i].ID = 0
	}
	return rows, nil
}
