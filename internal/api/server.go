// Package api mounts the form functions on a chi router. The same handler
// serves the standalone server and the Lambda entrypoint.
package api

import (
	"context"
	"net/http"
	"time"

	commonhttp "site-functions/internal/common/http"
	"site-functions/internal/common/logger"
	"site-functions/internal/common/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ContactPath    = "/api/contact"
	AssessmentPath = "/api/platform-engineering-assessment"
)

// Limiter is implemented by *ratelimit.Limiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// ReadinessCheck reports whether a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// Config holds the HTTP-level settings.
type Config struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Version        string
}

// Dependencies are the handlers and collaborators the router needs. A nil
// function handler leaves its route unmounted; a nil Limiter disables rate
// limiting. Gatherer is scraped on /metrics next to the default registry.
type Dependencies struct {
	Contact         http.Handler
	Assessment      http.Handler
	Limiter         Limiter
	Gatherer        prometheus.Gatherer
	ReadinessChecks map[string]ReadinessCheck
	Logger          logger.Logger
}

type Server struct {
	cfg    Config
	deps   Dependencies
	logger logger.Logger
}

// NewServer wires the chi router and returns it as an http.Handler.
func NewServer(cfg Config, deps Dependencies) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	s := &Server{cfg: cfg, deps: deps, logger: log}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	if s.deps.Gatherer != nil {
		gatherers = append(gatherers, s.deps.Gatherer)
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.deps.Limiter != nil {
			r.Use(s.rateLimit)
		}
		if s.deps.Contact != nil {
			r.Method(http.MethodPost, ContactPath, s.deps.Contact)
		}
		if s.deps.Assessment != nil {
			r.Method(http.MethodPost, AssessmentPath, s.deps.Assessment)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteJSON(w, http.StatusNotFound, commonhttp.ClientErrorBody{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteJSON(w, http.StatusMethodNotAllowed, commonhttp.ClientErrorBody{Error: "Method not allowed"})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.ReadinessChecks))
	for name, check := range s.deps.ReadinessChecks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	commonhttp.WriteJSON(w, status, map[string]interface{}{
		"ready":  status == http.StatusOK,
		"checks": checks,
	})
}
