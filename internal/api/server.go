package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opensource-legal/gavel/internal/analysis"
	"github.com/opensource-legal/gavel/internal/domain"
	"github.com/opensource-legal/gavel/internal/regulations"
	"github.com/opensource-legal/gavel/internal/risk"
	"github.com/opensource-legal/gavel/internal/screen"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, cache domain.Cache, bus domain.EventBus, engine *screen.Engine, pipeline *analysis.Pipeline, riskEngine *risk.Engine, registry *regulations.Registry, version string, reportTTL time.Duration) *Server {
	handler := NewHandler(repo, cache, bus, engine, pipeline, riskEngine, registry, version, reportTTL)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints (no tenant required)
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// API routes (tenant required)
	router.Route("/", func(r chi.Router) {
		r.Use(TenantMiddleware)

		// Document analysis
		r.Post("/analyze", handler.Analyze)

		// Report retrieval
		r.Get("/reports/{id}", handler.GetReport)

		// Document retrieval
		r.Get("/documents/{id}", handler.GetDocument)
		r.Get("/documents/{id}/risk", handler.GetDocumentRisk)
		r.Get("/documents/{id}/risk/summary", handler.GetDocumentRiskSummary)
		r.Get("/documents/{id}/clauses/{clauseId}", handler.GetClauseRisk)

		// Screening rule management
		r.Get("/screen-rules", handler.ListScreenRules)
		r.Get("/screen-rules/{id}", handler.GetScreenRule)
		r.Post("/screen-rules", handler.CreateScreenRule)
		r.Delete("/screen-rules/{id}", handler.DeleteScreenRule)
		r.Post("/screen-rules/reload", handler.ReloadScreenRules)

		// Regulation registry
		r.Get("/regulations", handler.ListRegulations)
		r.Get("/regulations/{id}", handler.GetRegulation)
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
