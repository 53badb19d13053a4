package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"txstats/internal/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 10

// ParseMonth reads the month query parameter. Unrecognized values are kept
// so the query matches nothing.
func ParseMonth(query url.Values) core.Month {
	return core.ParseMonth(query.Get("month"))
}

// ParseListParams extracts listing parameters. Missing, non-numeric or
// non-positive page and perPage fall back to the defaults. Search is matched
// as a raw substring, so whitespace is significant.
func ParseListParams(query url.Values) core.ListParams {
	return core.ListParams{
		Month:   ParseMonth(query),
		Page:    positiveInt(query.Get("page"), core.DefaultPage),
		PerPage: positiveInt(query.Get("perPage"), core.DefaultPerPage),
		Search:  stripControl(query.Get("search")),
	}.Normalize()
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// IngestRequest is the optional body of POST /ingestions.
type IngestRequest struct {
	RequestedBy string `json:"requestedBy"`
}

// ParseIngestRequest decodes the optional JSON body. An empty body is valid.
func ParseIngestRequest(r *http.Request) (IngestRequest, error) {
	var req IngestRequest
	if r.Body == nil {
		return req, nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return IngestRequest{}, err
	}
	req.RequestedBy = sanitizeInput(req.RequestedBy)
	return req, nil
}

// RequireMethod returns a 405 response unless r uses one of methods.
// HEAD is accepted wherever GET is.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m || (m == http.MethodGet && r.Method == http.MethodHead) {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequireGET(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}

func RequirePOST(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}
