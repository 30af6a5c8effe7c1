package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/humantools/internal/config"
	"github.com/dgallion1/humantools/internal/pipeline"
	"github.com/dgallion1/humantools/internal/tools"
)

// Server is the HTTP API server for humantools.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	tools        *tools.Toolkit
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, kit *tools.Toolkit, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		tools:        kit,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Route("/api/pdf", func(r chi.Router) {
			r.Post("/combine", s.handleCombine)
			r.Post("/split", s.handleSplit)
			r.Post("/sign", s.handleSign)
			r.Post("/from-images", s.handleImagesToPDF)
			r.Post("/from-document", s.handleDocToPDF)
			r.Post("/inspect", s.handleInspect)
		})

		r.Route("/api/photos", func(r chi.Router) {
			r.Post("/edit", s.handleEditPhotos)
			r.Post("/slideshow", s.handleSlideshow)
			r.Get("/presets", s.handlePresets)
		})

		r.Post("/api/memes", s.handleMeme)

		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)

		r.Get("/api/stats/tools", s.handleToolStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
