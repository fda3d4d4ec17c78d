// Package server exposes the layout engine and the blueprint store over
// HTTP.
//
// Every JSON response uses the planner's envelope:
//
//	{"success": true, "message": "...", "data": {...}, "errors": [...]}
//
// Render endpoints answer with the artifact itself (SVG, HTML or DOT).
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/blueprint/pkg/pipeline"
	"github.com/matzehuels/blueprint/pkg/planner"
	"github.com/matzehuels/blueprint/pkg/store"
)

// Server timeouts.
const (
	DefaultRequestTimeout = 3 * time.Minute
	readHeaderTimeout     = 10 * time.Second
	shutdownTimeout       = 15 * time.Second
	maxBodyBytes          = 4 << 20
)

// Planner generates blueprints and asks clarifying questions.
// [planner.Client] implements it.
type Planner interface {
	pipeline.Generator
	planner.QuestionSource
	Health(ctx context.Context) error
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	planner  Planner
	logger   *log.Logger
	metrics  http.Handler
	timeout  time.Duration
	defaults pipeline.Options
	validate *validator.Validate
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithPlanner enables blueprint generation. Without a planner, creating a
// project requires a blueprint in the request.
func WithPlanner(p Planner) Option { return func(s *Server) { s.planner = p } }

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithRequestTimeout bounds the time spent on one request.
func WithRequestTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithDefaults sets the layout and render options used when a request
// leaves them out.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// New creates a server. runner and st are required.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		store:    st,
		timeout:  DefaultRequestTimeout,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/questions", s.handleQuestions)

		r.Route("/blueprints", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Delete("/", s.handleDeleteProject)
				r.Get("/diagrams/{kind}", s.handleDiagram)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
