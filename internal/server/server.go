// Package server implements the Skein HTTP API.
//
// The API exposes the same pipeline the CLI runs: submit a service graph,
// get back a computed layout or rendered artifact. Saved per-viewer node
// positions have their own small CRUD surface.
//
// # Endpoints
//
//	GET  /healthz                                  liveness probe
//	GET  /version                                  build information
//	POST /api/layout                               compute a layout
//	POST /api/render                               render artifacts
//	GET  /api/positions/{viewer}/{topology}        fetch saved positions
//	PUT  /api/positions/{viewer}/{topology}        save positions
//	DELETE /api/positions/{viewer}/{topology}      delete saved positions
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skein-viz/skein/pkg/pipeline"
	"github.com/skein-viz/skein/pkg/positions"
)

// Config holds the server configuration.
type Config struct {
	Addr string // listen address, e.g. ":8080"

	// RequestTimeout bounds each request including layout computation.
	RequestTimeout time.Duration

	// MaxBodyBytes caps the request body size. Zero means the default.
	MaxBodyBytes int64
}

// DefaultRequestTimeout bounds one layout request. Graphviz runs inside
// the request, so this is generous.
const DefaultRequestTimeout = 30 * time.Second

// DefaultMaxBodyBytes caps graph submissions at 4 MiB.
const DefaultMaxBodyBytes = 4 << 20

// Server wires the pipeline runner and position store into an HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  positions.Store
	logger *log.Logger
	cfg    Config

	http *http.Server
}

// New creates a server. The runner is required; store may be nil, in
// which case the positions endpoints return 404.
func New(runner *pipeline.Runner, store positions.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Route("/positions/{viewer}/{topology}", func(r chi.Router) {
			r.Get("/", s.handleGetPositions)
			r.Put("/", s.handlePutPositions)
			r.Delete("/", s.handleDeletePositions)
		})
	})

	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.cfg.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
