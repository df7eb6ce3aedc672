// Package server exposes the analysis, optimization and review pipelines
// over HTTP with a uniform JSON envelope.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/blackwell-systems/codewatch/internal/analysis"
	"github.com/blackwell-systems/codewatch/internal/config"
	"github.com/blackwell-systems/codewatch/internal/optimize"
	"github.com/blackwell-systems/codewatch/internal/review"
	"github.com/blackwell-systems/codewatch/internal/store"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// History persists completed reviews and reports aggregate statistics.
type History interface {
	SaveReview(rec *store.ReviewRecord) error
	ReviewStats() (*store.ReviewStats, error)
}

// Server wires the engines to HTTP handlers.
type Server struct {
	cfg       config.Server
	log       hclog.Logger
	analyzer  *analysis.Engine
	optimizer *optimize.Engine
	reviewer  *review.Engine
	history   History
	now       func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithHistory enables review persistence and the stats endpoint.
func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

// WithReviewEngine replaces the default review engine.
func WithReviewEngine(e *review.Engine) Option {
	return func(s *Server) { s.reviewer = e }
}

// WithOptimizeEngine replaces the default optimization engine.
func WithOptimizeEngine(e *optimize.Engine) Option {
	return func(s *Server) { s.optimizer = e }
}

// WithClock sets the time source used to stamp persisted reviews.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server. A nil logger discards output.
func New(cfg config.Server, log hclog.Logger, opts ...Option) *Server {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	s := &Server{
		cfg:       cfg,
		log:       log,
		analyzer:  analysis.NewEngine(),
		optimizer: optimize.NewEngine(nil),
		reviewer:  review.NewEngine(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/optimize", s.handleOptimize)
	mux.HandleFunc("POST /api/review", s.handleReview)
	mux.HandleFunc("GET /api/review/stats", s.handleReviewStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	if s.cfg.RequestTimeout > 0 {
		h = http.TimeoutHandler(h, s.cfg.RequestTimeout, timeoutBody)
	}
	h = s.recoverPanics(h)
	return s.logRequests(h)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
