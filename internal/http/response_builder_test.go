package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusAccepted).
		Header("X-Custom", "value").
		Payload(map[string]int{"inserted": 3}).
		Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if got := w.Header().Get("X-Custom"); got != "value" {
		t.Errorf("X-Custom = %q, want %q", got, "value")
	}
	if got := w.Body.String(); got != `{"inserted":3}` {
		t.Errorf("Body = %q", got)
	}
}

func TestJSONResponseBuilder_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().Payload(make(chan int)).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if got := w.Body.String(); got != `{"error":"Internal Server Error"}` {
		t.Errorf("Body = %q", got)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *JSONResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{"internal server error", InternalServerError(), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
		{"not found", NotFoundError(), http.StatusNotFound, `{"error":"Not Found"}`},
		{"service unavailable", ServiceUnavailableError(), http.StatusServiceUnavailable, `{"error":"Service Unavailable"}`},
		{"too many requests", TooManyRequestsError(), http.StatusTooManyRequests, `{"error":"Too Many Requests"}`},
		{"custom", ErrorResponse(http.StatusTeapot, "short and stout"), http.StatusTeapot, `{"error":"short and stout"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowedError("GET").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if w.Header().Get("Allow") != "GET" {
		t.Errorf("Allow header = %q, want %q", w.Header().Get("Allow"), "GET")
	}
}
