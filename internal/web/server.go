package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"punchclock/internal/db"
	"punchclock/internal/insight"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the dashboard, history and insights views plus the
// JSON API the pages call.
type Server struct {
	db        *db.DB
	generator insight.Generator
	srv       *http.Server
	tmpl      *template.Template

	// One insight request may be in flight at a time; while it runs,
	// further requests are rejected rather than queued.
	mu         sync.Mutex
	generating bool
}

func New(database *db.DB, generator insight.Generator, addr string) (*Server, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	s := &Server{
		db:        database,
		generator: generator,
		tmpl:      tmpl,
	}
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleDashboard)
	r.Get("/history", s.handleHistory)
	r.Get("/insights", s.handleInsightsPage)

	r.Route("/api", func(r chi.Router) {
		r.Post("/punch/in", s.handlePunchIn)
		r.Post("/punch/out", s.handlePunchOut)
		r.Get("/stats", s.handleStats)
		r.Get("/days", s.handleDays)
		r.Post("/insights", s.handleGenerateInsights)
	})

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Printf("Web server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("error running web server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
