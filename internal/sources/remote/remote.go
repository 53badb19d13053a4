// Package remote fetches the dataset from an HTTP endpoint serving a JSON array.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"txstats/internal/core"
	"txstats/internal/sources"
)

// maxPayloadBytes caps the downloaded body.
const maxPayloadBytes = 64 << 20

type Source struct {
	url    string
	client *http.Client
}

var _ sources.Source = (*Source)(nil)

// New returns a source reading url with the given overall request timeout.
func New(url string, timeout time.Duration) *Source {
	return NewWithClient(url, newHTTPClient(timeout))
}

// NewWithClient returns a source using a caller-supplied client.
func NewWithClient(url string, client *http.Client) *Source {
	return &Source{url: url, client: client}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func (s *Source) Name() string { return "remote" }

// Fetch downloads and decodes the dataset. Any non-2xx status is an error.
func (s *Source) Fetch(ctx context.Context) ([]core.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", sources.ErrUnexpectedStatus, s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	rows, err := sources.DecodeJSON(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Fetched remote dataset",
		"url", s.url,
		"payload", humanize.Bytes(uint64(len(body))),
		"rows", len(rows),
		"duration", time.Since(start).Round(time.Millisecond))

	return rows, nil
}
