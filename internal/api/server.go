// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	handler "github.com/newthinker/sentinel/internal/api/handler/api"
	"github.com/newthinker/sentinel/internal/api/middleware"
	"github.com/newthinker/sentinel/internal/metrics"
	"github.com/newthinker/sentinel/internal/storage/report"
)

// Server represents the HTTP server for the dashboard
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	router     chi.Router
	hub        *Hub
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string
	CORSOrigins []string
	// MetricsPath is where Prometheus metrics are exposed; empty disables.
	MetricsPath string
}

// Dependencies holds the collaborators the routes need.
type Dependencies struct {
	App     handler.DashboardApp
	Reports report.Store
	Hub     *Hub
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.App == nil {
		return nil, fmt.Errorf("dashboard app required")
	}
	if deps.Reports == nil {
		return nil, fmt.Errorf("report store required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Hub == nil {
		var gauge ClientGauge
		if deps.Metrics != nil {
			gauge = deps.Metrics
		}
		deps.Hub = NewHub(cfg.CORSOrigins, gauge, logger)
	}

	s := &Server{
		logger: logger,
		hub:    deps.Hub,
	}
	s.router = s.buildRouter(cfg, deps)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// buildRouter configures middleware and routes
func (s *Server) buildRouter(cfg Config, deps Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.LoggingMiddleware(s.logger))
	if deps.Metrics != nil {
		r.Use(metrics.HTTPMiddleware(deps.Metrics))
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	dashboard := handler.NewDashboardHandler(deps.App)
	reports := handler.NewReportsHandler(deps.Reports)

	r.Get("/health", dashboard.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", dashboard.Health)
		r.Get("/dashboard", dashboard.Get)
		r.Get("/reports", reports.List)
		r.Get("/reports/{id}", reports.Get)
		r.Get("/ws", s.hub.Handler(deps.App.Latest))

		r.With(middleware.APIKeyAuth(cfg.APIKey)).Post("/refresh", dashboard.Refresh)
	})

	if deps.Metrics != nil && cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, deps.Metrics.Handler())
	}

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub; register it as a dashboard publisher.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start starts the WebSocket hub and the HTTP server. It blocks until the
// server stops.
func (s *Server) Start() error {
	go s.hub.Run()

	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}
