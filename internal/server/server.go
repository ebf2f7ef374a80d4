// Package server provides the HTTP server and routing for Folio.
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

	"github.com/periphas/folio/internal/config"
	allocationhandlers "github.com/periphas/folio/internal/modules/allocation/handlers"
	currencyhandlers "github.com/periphas/folio/internal/modules/currency/handlers"
	holdingshandlers "github.com/periphas/folio/internal/modules/holdings/handlers"
	performancehandlers "github.com/periphas/folio/internal/modules/performance/handlers"
)

// Config holds server configuration
type Config struct {
	Log                 zerolog.Logger
	Config              *config.Config
	HoldingsHandlers    *holdingshandlers.Handler
	AllocationHandlers  *allocationhandlers.Handler
	PerformanceHandlers *performancehandlers.Handler
	CurrencyHandlers    *currencyhandlers.Handler
	SystemHandlers      *SystemHandlers
}

// Server represents the HTTP server
type Server struct {
	router              *chi.Mux
	server              *http.Server
	log                 zerolog.Logger
	cfg                 *config.Config
	holdingsHandlers    *holdingshandlers.Handler
	allocationHandlers  *allocationhandlers.Handler
	performanceHandlers *performancehandlers.Handler
	currencyHandlers    *currencyhandlers.Handler
	systemHandlers      *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:              chi.NewRouter(),
		log:                 cfg.Log.With().Str("component", "server").Logger(),
		cfg:                 cfg.Config,
		holdingsHandlers:    cfg.HoldingsHandlers,
		allocationHandlers:  cfg.AllocationHandlers,
		performanceHandlers: cfg.PerformanceHandlers,
		currencyHandlers:    cfg.CurrencyHandlers,
		systemHandlers:      cfg.SystemHandlers,
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})

		s.holdingsHandlers.RegisterRoutes(r)
		s.allocationHandlers.RegisterRoutes(r)
		s.performanceHandlers.RegisterRoutes(r)
		s.currencyHandlers.RegisterRoutes(r)
	})
}

// handleHealth is a minimal liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Router exposes the configured router, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
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
