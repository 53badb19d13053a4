package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"txstats/internal/core"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		query string
		want  core.Month
	}{
		{"month=01", "01"},
		{"month=1", "01"},
		{"month=January", "01"},
		{"month=jan", "01"},
		{"month=12", "12"},
		{"month=13", "13"},
		{"month=abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ParseMonth(q); got != tt.want {
				t.Errorf("ParseMonth(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  core.ListParams
	}{
		{"defaults", "month=03", core.ListParams{Month: "03", Page: 1, PerPage: 10}},
		{"explicit", "month=03&page=2&perPage=5&search=phone", core.ListParams{Month: "03", Page: 2, PerPage: 5, Search: "phone"}},
		{"zero page", "month=03&page=0&perPage=0", core.ListParams{Month: "03", Page: 1, PerPage: 10}},
		{"negative", "month=03&page=-4", core.ListParams{Month: "03", Page: 1, PerPage: 10}},
		{"non-numeric", "month=03&page=x&perPage=y", core.ListParams{Month: "03", Page: 1, PerPage: 10}},
		{"search keeps spaces", "month=03&search=%20bag%0A", core.ListParams{Month: "03", Page: 1, PerPage: 10, Search: " bag"}},
		{"whitespace search", "month=03&search=%20", core.ListParams{Month: "03", Page: 1, PerPage: 10, Search: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			if got := ParseListParams(q); got != tt.want {
				t.Errorf("ParseListParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseIngestRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"empty body", "", "", false},
		{"requested by", `{"requestedBy":" ops "}`, "ops", false},
		{"malformed", `{"requestedBy":`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ingestions", strings.NewReader(tt.body))
			got, err := ParseIngestRequest(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got.RequestedBy != tt.want {
				t.Errorf("RequestedBy = %q, want %q", got.RequestedBy, tt.want)
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		allowed []string
		wantErr bool
	}{
		{"GET allowed", http.MethodGet, []string{http.MethodGet}, false},
		{"HEAD allowed for GET", http.MethodHead, []string{http.MethodGet}, false},
		{"POST not allowed on GET", http.MethodPost, []string{http.MethodGet}, true},
		{"DELETE not allowed", http.MethodDelete, []string{http.MethodGet, http.MethodPost}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			result := RequireMethod(req, tt.allowed...)

			if tt.wantErr && result == nil {
				t.Error("Expected error response but got nil")
			}
			if !tt.wantErr && result != nil {
				t.Error("Expected nil but got error response")
			}
		})
	}
}

func TestRequirePOST(t *testing.T) {
	postReq := httptest.NewRequest(http.MethodPost, "/test", nil)
	if result := RequirePOST(postReq); result != nil {
		t.Error("RequirePOST should allow POST requests")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/test", nil)
	result := RequirePOST(getReq)
	if result == nil {
		t.Fatal("RequirePOST should reject GET requests")
	}
	w := httptest.NewRecorder()
	result.Write(w)
	if w.Header().Get("Allow") != http.MethodPost {
		t.Errorf("Allow = %q, want POST", w.Header().Get("Allow"))
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\tb\x00c  "); got != "abc" {
		t.Errorf("sanitizeInput = %q, want %q", got, "abc")
	}
}

func TestStripControl(t *testing.T) {
	if got := stripControl(" blue \x00"); got != " blue " {
		t.Errorf("stripControl = %q, want %q", got, " blue ")
	}
}
