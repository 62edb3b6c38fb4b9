// Package api exposes the layout pipeline and the graph registry over
// HTTP.
//
// All routes speak JSON. Layout computation, connection derivation and
// transition diffing are POST endpoints that accept either an inline
// family document or the name of a stored graph; the /v1/graphs
// routes manage the stored ones. Every response carries the request ID
// assigned by the middleware, and /metrics serves the Prometheus
// registry when one is installed.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pedigraph/pedigraph/pkg/observability"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
	"github.com/pedigraph/pedigraph/pkg/store"
)

const shutdownGrace = 10 * time.Second

// Server wires the pipeline runner and the graph store into an HTTP
// API. Build one with New and mount Router, or run ListenAndServe.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	metrics *observability.Metrics
}

// Dependencies carries everything a Server needs. Zero values get
// sensible defaults: an uncached runner, an in-memory store, the
// default logger. Metrics stays optional; without it the /metrics
// route is not mounted.
type Dependencies struct {
	Runner  *pipeline.Runner
	Store   store.Store
	Logger  *log.Logger
	Metrics *observability.Metrics
}

// New assembles a server from its dependencies.
func New(dep Dependencies) *Server {
	if dep.Logger == nil {
		dep.Logger = log.Default()
	}
	if dep.Runner == nil {
		dep.Runner = pipeline.NewRunner(nil, nil, dep.Logger)
	}
	if dep.Store == nil {
		dep.Store = store.NewMemoryStore()
	}
	return &Server{
		runner:  dep.Runner,
		store:   dep.Store,
		logger:  dep.Logger,
		metrics: dep.Metrics,
	}
}

// Router builds the chi handler with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.recovery)
	r.Use(s.logging)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/layout", s.handleLayout)
		v1.Post("/layout/steps", s.handleLayoutSteps)
		v1.Post("/connections", s.handleConnections)
		v1.Post("/transition", s.handleTransition)

		v1.Route("/graphs", func(gr chi.Router) {
			gr.Get("/", s.handleListGraphs)
			gr.Put("/{name}", s.handlePutGraph)
			gr.Get("/{name}", s.handleGetGraph)
			gr.Delete("/{name}", s.handleDeleteGraph)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "grace", shutdownGrace)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
