// Package server exposes the layout pipeline over HTTP.
//
// # Endpoints
//
//	POST /api/v1/layout              full layout of a document
//	POST /api/v1/layout/incremental  overlap fix after an edit
//	POST /api/v1/render              preview of a positioned document
//	GET  /health                     liveness probe
//	GET  /metrics                    Prometheus metrics (when configured)
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// whose status follows the [errors.Code] of the failure. Requests may set
// X-Tenant-ID to keep their cache entries apart from other tenants.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindlayout/pkg/buildinfo"
	"github.com/matzehuels/mindlayout/pkg/config"
	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may take after the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

// Server serves the layout API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cfg      config.ServerConfig
	defaults pipeline.Options
	metrics  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithDefaults sets the layout options applied when a request omits them.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, cfg config.ServerConfig, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	s := &Server{
		runner: runner,
		logger: logger,
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(requestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.logRequests)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorBody{
			Code:      errors.ErrCodeUnsupported,
			Message:   "method " + r.Method + " not allowed on " + r.URL.Path,
			RequestID: RequestIDFromContext(r.Context()),
		}})
	})

	router.Get("/health", s.health)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Use(versionHeaders)

		r.Post("/layout", s.layout)
		r.Post("/layout/incremental", s.incremental)
		r.Post("/render", s.render)
	})

	return router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// versionHeaders adds API version headers to responses.
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}
