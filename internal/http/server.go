// Package http serves the JSON API for recording transactions and reading
// monthly summaries.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

const (
	defaultRequestTimeout = 15 * time.Second
	maxConcurrentWrites   = 16
	maxBodyBytes          = 64 << 10
)

// TransactionRecorder is the write path behind POST /api/transactions.
type TransactionRecorder interface {
	Record(ctx context.Context, t core.Transaction) (string, error)
}

// SummaryProvider serves single-month and multi-month summaries.
type SummaryProvider interface {
	Summary(ctx context.Context, month core.MonthKey) (core.MonthlySummary, error)
	Range(ctx context.Context, from, to core.MonthKey) ([]core.MonthlySummary, error)
}

// Deps are the collaborators the API needs.
type Deps struct {
	Transactions TransactionRecorder
	Lister       ledger.TransactionLister
	Summaries    SummaryProvider
	// Months backs GET /api/months. Optional.
	Months ledger.MonthLister
	// Ready reports whether the backing store can serve requests. Optional.
	Ready func(ctx context.Context) error

	Logger         *applog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	// WriteRateLimit caps POSTs per client IP per minute.
	WriteRateLimit int
}

type Server struct {
	http.Server

	deps         Deps
	router       chi.Router
	rateLimiter  *rateLimiter
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = defaultRequestTimeout
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		deps:        deps,
		router:      chi.NewRouter(),
		rateLimiter: newRateLimiter(deps.WriteRateLimit),
		now:         time.Now,
	}
	s.rateLimiter.startCleanup(5 * time.Minute)

	s.setupMiddleware()
	s.setupRoutes()

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      deps.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(applog.Middleware(s.deps.Logger, func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.deps.RequestTimeout))
	s.router.Use(securityHeaders(DefaultHeadersConfig()))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", handleHealth)
	s.router.Get("/readyz", s.handleReady)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.With(middleware.Throttle(maxConcurrentWrites), s.rateLimiter.middleware).
				Post("/", s.handleCreateTransaction)
		})
		r.Get("/summary", s.handleSummary)
		r.Get("/summaries", s.handleSummaries)
		if s.deps.Months != nil {
			r.Get("/months", s.handleListMonths)
		}
	})
}

// Router returns the routed handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
