// Package server is the HTTP host for the solver.
//
// Every endpoint speaks JSON. Failures carry the same numeric status codes
// as the handle boundary (see package boundary) plus the error code name
// and, for per-unit failures, the offending unit index:
//
//	POST /v1/solve   {"units": [...], "theta": 0.8}  → segments of one solve
//	POST /v1/sweep   {"units": [...], "from": 0.8, "to": 0.5, "steps": 31}
//	GET  /healthz    liveness and build version
//
// Results are looked up in and stored to the configured cache.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/linkagesim/pkg/cache"
)

const (
	// maxBodyBytes bounds a request body.
	maxBodyBytes = 8 << 20

	// maxSweepSteps bounds the steps of one sweep request.
	maxSweepSteps = 10_000

	shutdownTimeout = 5 * time.Second
)

// Options configure a Server. Zero values select defaults.
type Options struct {
	Cache   cache.Cache   // default: no caching
	Keyer   cache.Keyer   // default: cache.NewDefaultKeyer()
	TTL     time.Duration // default: cache.DefaultTTL
	Workers int           // concurrent solves per sweep; default GOMAXPROCS
	Logger  *log.Logger   // default: log.Default()
	Stats   *Stats        // reported on /healthz when set
}

// Server serves the solver over HTTP.
type Server struct {
	router  chi.Router
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	workers int
	logger  *log.Logger
	stats   *Stats
}

// New creates a server with its routes registered.
func New(opts Options) *Server {
	s := &Server{
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		ttl:     opts.TTL,
		workers: opts.Workers,
		logger:  opts.Logger,
		stats:   opts.Stats,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/sweep", s.handleSweep)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path, RequestID: RequestIDFrom(r.Context())})
	})

	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
