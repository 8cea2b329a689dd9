// Package server provides the HTTP server and routing for the climate risk
// API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/modules/esg"
	"github.com/kclimate/krisk/internal/modules/partner"
	"github.com/kclimate/krisk/internal/modules/physical"
	"github.com/kclimate/krisk/internal/modules/reports"
	"github.com/kclimate/krisk/internal/modules/transition"

	companyhandlers "github.com/kclimate/krisk/internal/modules/company/handlers"
	esghandlers "github.com/kclimate/krisk/internal/modules/esg/handlers"
	partnerhandlers "github.com/kclimate/krisk/internal/modules/partner/handlers"
	physicalhandlers "github.com/kclimate/krisk/internal/modules/physical/handlers"
	scenarioshandlers "github.com/kclimate/krisk/internal/modules/scenarios/handlers"
	transitionhandlers "github.com/kclimate/krisk/internal/modules/transition/handlers"
)

// requestTimeout bounds every request end to end.
const requestTimeout = 30 * time.Second

// Config holds server configuration.
type Config struct {
	Log     zerolog.Logger
	Port    int
	DevMode bool

	Transition *transition.Engine
	Physical   *physical.Engine
	ESG        *esg.Engine
	Reports    *reports.Generator
	Sessions   *partner.Store
}

// Server is the HTTP front of the risk engines.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	metrics *metrics
	started time.Time
}

// New creates the HTTP server and wires every route.
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		metrics: newMetrics(),
		started: time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(middleware.Timeout(requestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/metrics", s.metrics.handler())

	scenarios := scenarioshandlers.NewHandler(s.log)
	company := companyhandlers.NewHandler(s.log)
	trans := transitionhandlers.NewHandler(cfg.Transition, s.log)
	phys := physicalhandlers.NewHandler(cfg.Physical, s.log)
	scorer := esghandlers.NewHandler(cfg.ESG, cfg.Reports, s.log)
	sessions := partnerhandlers.NewHandler(cfg.Sessions, trans, phys, scorer, s.log)

	scenarios.RegisterRoutes(s.router)
	company.RegisterRoutes(s.router)
	trans.RegisterRoutes(s.router)
	phys.RegisterRoutes(s.router)
	scorer.RegisterRoutes(s.router)
	sessions.RegisterRoutes(s.router)
}

// Start begins serving. Blocks until the listener closes.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the chi mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
