// Package api exposes the build and import pipeline over HTTP and serves
// the built site for preview.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mwhite4/inkpress/internal/config"
	"github.com/mwhite4/inkpress/internal/pipeline"
	"github.com/mwhite4/inkpress/internal/site"
)

// Server is the HTTP API and preview server.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	builder      *site.Builder
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, builder *site.Builder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		builder:      builder,
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
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	// API endpoints. Auth is enforced only when a key is configured, so a
	// local preview needs no credentials.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/build", s.handleBuild)
		r.Get("/api/build/{jobID}/status", s.handleBuildStatus)
		r.Get("/api/articles", s.handleListArticles)
		r.Post("/api/import", s.handleImport)
		r.Get("/api/stats/render", s.handleRenderStats)
	})

	// Everything else is the built site.
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.OutputDir)))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
