package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/routelens/internal/config"
	"github.com/dgallion1/routelens/internal/convert"
	"github.com/dgallion1/routelens/internal/pipeline"
	"github.com/dgallion1/routelens/internal/render"
)

// Server is the HTTP API server for routelens.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	renderer     render.Renderer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		renderer:     render.Renderer{Converter: convert.HTMLToMarkdown{}, Log: log},
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Post("/api/routes", s.handleRoutes)
		r.Post("/api/hover", s.handleHover)

		r.Post("/api/scan/batch", s.handleBatchScan)
		r.Get("/api/scan/{jobID}/status", s.handleScanStatus)
		r.Get("/api/scan/{jobID}/results", s.handleScanResults)

		r.Get("/api/docs/mediatypes", s.handleListMediaTypes)
		r.Get("/api/docs/mediatypes/{name}", s.handleMediaTypeDoc)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
