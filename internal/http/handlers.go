package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"txstats/internal/amqp"
	applog "txstats/internal/log"
)

const publishTimeout = 5 * time.Second

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFoundError().Write(w)
}

// /initialize-database reloads the dataset from the configured source.
func (s *Server) handleInitializeDatabase(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	result, err := s.ingester.Run(r.Context())
	if err != nil {
		s.fail(w, r, "Failed to initialize database", err, applog.ComponentIngest, applog.OpIngest, nil)
		return
	}

	NewJSONResponse().Payload(result).Write(w)
}

// /transactions lists one page of a month, optionally filtered by search.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	params := ParseListParams(r.URL.Query())
	rows, err := s.reports.Transactions(r.Context(), params)
	if err != nil {
		fields := applog.NewFields().WithListing(params.Month.String(), params.Page, params.PerPage, params.Search)
		s.fail(w, r, "Failed to list transactions", err, applog.ComponentReport, applog.OpList, fields)
		return
	}

	NewJSONResponse().Payload(rows).Write(w)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	month := ParseMonth(r.URL.Query())
	stats, err := s.reports.Statistics(r.Context(), month)
	if err != nil {
		s.fail(w, r, "Failed to compute statistics", err, applog.ComponentReport, applog.OpStatistics, monthFields(month.String()))
		return
	}

	NewJSONResponse().Payload(stats).Write(w)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	month := ParseMonth(r.URL.Query())
	bars, err := s.reports.PriceHistogram(r.Context(), month)
	if err != nil {
		s.fail(w, r, "Failed to compute price histogram", err, applog.ComponentReport, applog.OpHistogram, monthFields(month.String()))
		return
	}

	NewJSONResponse().Payload(bars).Write(w)
}

func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	month := ParseMonth(r.URL.Query())
	slices, err := s.reports.CategoryBreakdown(r.Context(), month)
	if err != nil {
		s.fail(w, r, "Failed to compute category breakdown", err, applog.ComponentReport, applog.OpCategories, monthFields(month.String()))
		return
	}

	NewJSONResponse().Payload(slices).Write(w)
}

// /combined-data reloads the dataset and returns every report for the
// configured month. Query parameters are ignored.
func (s *Server) handleCombinedData(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	combined, err := s.combiner.Combined(r.Context(), s.combinedMonth)
	if err != nil {
		s.fail(w, r, "Failed to build combined data", err, applog.ComponentReport, applog.OpCombined, monthFields(s.combinedMonth.String()))
		return
	}

	NewJSONResponse().Payload(combined).Write(w)
}

// /ingestions queues a reload for the ingest worker.
func (s *Server) handleCreateIngestion(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.publisher == nil {
		ServiceUnavailableError().Write(w)
		return
	}

	req, err := ParseIngestRequest(r)
	if err != nil {
		// the body is advisory; a malformed one only loses requestedBy
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Ignoring malformed ingestion request body",
			applog.FieldError, err)
	}

	requestedBy := req.RequestedBy
	if requestedBy == "" {
		requestedBy = "api"
	}
	msg := amqp.NewIngestRequestMessage(requestedBy)

	ctx, cancel := context.WithTimeout(r.Context(), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishIngestRequest(ctx, msg); err != nil {
		fields := applog.NewFields()
		fields[applog.FieldMessageID] = msg.ID
		s.fail(w, r, "Failed to queue ingestion", err, applog.ComponentAMQP, applog.OpPublish, fields)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Ingestion queued",
		applog.FieldMessageID, msg.ID,
		"requested_by", requestedBy)

	NewJSONResponse().
		Status(http.StatusAccepted).
		Payload(map[string]string{"id": msg.ID, "status": "queued"}).
		Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	NewJSONResponse().Payload(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.store == nil {
		ServiceUnavailableError().Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
			applog.FieldError, err)
		ServiceUnavailableError().Write(w)
		return
	}
	NewJSONResponse().Payload(map[string]string{"status": "ready"}).Write(w)
}

// /metrics renders counters in a plain key value format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	var b strings.Builder
	traceMetrics := s.tracer.GetMetrics()
	fmt.Fprintf(&b, "http_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(&b, "http_server_errors_total %d\n", traceMetrics.ServerErrors)
	fmt.Fprintf(&b, "http_response_time_avg_ms %d\n", traceMetrics.AverageResponseTime.Milliseconds())

	if s.ingester != nil {
		stats := s.ingester.Stats()
		fmt.Fprintf(&b, "ingestions_total %d\n", stats.Runs)
		fmt.Fprintf(&b, "ingestion_failures_total %d\n", stats.Failures)
		fmt.Fprintf(&b, "ingestion_last_rows %d\n", stats.LastRows)
		if !stats.LastRun.IsZero() {
			fmt.Fprintf(&b, "ingestion_last_run %q\n", humanize.Time(stats.LastRun))
		}
	}

	securityMetrics := s.detector.GetMetrics()
	fmt.Fprintf(&b, "suspicious_requests_total %d\n", securityMetrics.SuspiciousRequests)
	fmt.Fprintf(&b, "invalid_ip_attempts_total %d\n", securityMetrics.InvalidIPAttempts)

	limitMetrics := s.rateLimiter.GetMetrics()
	fmt.Fprintf(&b, "rate_limited_total %d\n", limitMetrics.TotalHits)
	fmt.Fprintf(&b, "rate_limit_clients %d\n", limitMetrics.ClientCount)

	if s.store != nil {
		if n, err := s.store.Count(r.Context()); err == nil {
			fmt.Fprintf(&b, "stored_rows %d\n", n)
		}
	}
	fmt.Fprintf(&b, "uptime_seconds %d\n", int64(time.Since(s.started).Seconds()))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// fail logs err with its context and answers with the generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error, component, operation string, fields applog.LogFields) {
	sl := applog.NewStructuredLogger(applog.FromContext(r.Context()))
	sl.LogError(r.Context(), msg, err, component, operation, fields)
	InternalServerError().Write(w)
}

func monthFields(month string) applog.LogFields {
	fields := applog.NewFields()
	fields[applog.FieldMonth] = month
	return fields
}
