// Package http serves the transaction reports as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"txstats/internal/amqp"
	"txstats/internal/core"
	applog "txstats/internal/log"
	"txstats/internal/middleware/ratelimit"
	"txstats/internal/middleware/security"
	"txstats/internal/middleware/trace"
	"txstats/internal/services"
)

type (
	Ingester interface {
		Run(ctx context.Context) (core.IngestResult, error)
		Stats() services.IngestionStats
	}

	Reporter interface {
		Transactions(ctx context.Context, p core.ListParams) ([]core.Transaction, error)
		Statistics(ctx context.Context, month core.Month) (core.Statistics, error)
		PriceHistogram(ctx context.Context, month core.Month) ([]core.RangeCount, error)
		CategoryBreakdown(ctx context.Context, month core.Month) ([]core.CategoryCount, error)
	}

	Combiner interface {
		Combined(ctx context.Context, month core.Month) (core.Combined, error)
	}

	IngestPublisher interface {
		PublishIngestRequest(ctx context.Context, msg *amqp.IngestRequestMessage) error
	}

	StoreProbe interface {
		Ping(ctx context.Context) error
		Count(ctx context.Context) (int64, error)
	}
)

// Deps are the collaborators of the server. Publisher may be nil when no
// broker is configured.
type Deps struct {
	Ingester           Ingester
	Reports            Reporter
	Combiner           Combiner
	Publisher          IngestPublisher
	Store              StoreProbe
	Logger             *applog.Logger
	CombinedMonth      core.Month
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	ingester      Ingester
	reports       Reporter
	combiner      Combiner
	publisher     IngestPublisher
	store         StoreProbe
	logger        *applog.Logger
	combinedMonth core.Month
	started       time.Time

	tracer      *trace.Middleware
	detector    *security.Detector
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	month := deps.CombinedMonth
	if month == "" {
		month = core.ParseMonth("January")
	}

	detector := security.NewDetector()

	s := &Server{
		ingester:      deps.Ingester,
		reports:       deps.Reports,
		combiner:      deps.Combiner,
		publisher:     deps.Publisher,
		store:         deps.Store,
		logger:        logger,
		combinedMonth: month,
		started:       time.Now(),
		tracer:        trace.NewMiddleware(detector.ExtractClientIP, logger),
		detector:      detector,
		rateLimiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
	}

	limited := s.rateLimiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r),
			applog.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleNotFound)
	mux.Handle("/initialize-database", limited(http.HandlerFunc(s.handleInitializeDatabase)))
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/statistics", s.handleStatistics)
	mux.HandleFunc("/bar-chart", s.handleBarChart)
	mux.HandleFunc("/pie-chart", s.handlePieChart)
	mux.Handle("/combined-data", limited(http.HandlerFunc(s.handleCombinedData)))
	mux.Handle("/ingestions", limited(http.HandlerFunc(s.handleCreateIngestion)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// innermost first; the tracer wraps everything
	var handler http.Handler = mux
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = s.detector.Middleware(false)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	return s
}

// Shutdown stops the limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
