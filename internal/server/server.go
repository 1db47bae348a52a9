// Package server assembles the HTTP surface: feature API routes, the
// dashboard pages, and shared middleware.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/aroldanm/mkdw-demo/internal/dashboard"
	"github.com/aroldanm/mkdw-demo/internal/db"
	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/editor"
	"github.com/aroldanm/mkdw-demo/internal/markdown"
	"github.com/aroldanm/mkdw-demo/internal/session"
	"github.com/aroldanm/mkdw-demo/internal/share"
	"github.com/aroldanm/mkdw-demo/internal/view"
)

// Config holds server configuration.
type Config struct {
	Port           int
	BaseURL        string // absolute base URL used for shareable links
	SiteTitle      string
	HighlightStyle string
	AllowAll       bool // allow all CORS origins (dev mode)
}

// Editor sessions live in memory, so abandoned ones are swept on a timer.
const (
	editorSessionTTL    = 12 * time.Hour
	editorPruneInterval = time.Hour
)

// Server is the document authoring and sharing server.
type Server struct {
	cfg        Config
	db         *db.DB
	docs       *document.Store
	sessions   *session.Store
	editors    *editor.Manager
	renderer   *markdown.Renderer
	router     chi.Router
	httpServer *http.Server
	stopPrune  chan struct{}
}

// New creates a new server with all feature stores wired to the database.
func New(cfg Config, database *db.DB) *Server {
	opts := markdown.Options{Styles: markdown.DefaultStyles()}
	if cfg.HighlightStyle != "" {
		opts.HighlightStyle = cfg.HighlightStyle
	}

	s := &Server{
		cfg:      cfg,
		db:       database,
		docs:     document.NewStore(database),
		sessions: session.NewStore(database),
		editors:  editor.NewManager(),
		renderer: markdown.New(opts),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(session.Middleware(s.sessions))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Feature APIs.
	session.RegisterRoutes(r, s.sessions)
	document.RegisterRoutes(r, s.docs, s.renderer, s.editors.CloseForDocument)
	share.RegisterRoutes(r, s.docs, s.cfg.BaseURL)
	view.RegisterRoutes(r, s.docs, s.editors)
	editor.RegisterRoutes(r, s.editors, s.docs, s.renderer)

	// Dashboard pages.
	pages := dashboard.New(s.docs, s.editors, s.renderer, s.cfg.SiteTitle, s.cfg.BaseURL)
	pages.RegisterRoutes(r)

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Documents returns the document store.
func (s *Server) Documents() *document.Store { return s.docs }

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store { return s.sessions }

// Editors returns the editor session manager.
func (s *Server) Editors() *editor.Manager { return s.editors }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.stopPrune = make(chan struct{})
	go s.pruneEditors()

	log.Info().Str("addr", addr).Msg("mkdw server listening")
	return s.httpServer.ListenAndServe()
}

// pruneEditors sweeps stale editor sessions until Shutdown.
func (s *Server) pruneEditors() {
	ticker := time.NewTicker(editorPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.editors.Prune(editorSessionTTL); n > 0 {
				log.Info().Int("sessions", n).Msg("pruned stale editor sessions")
			}
		case <-s.stopPrune:
			return
		}
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopPrune != nil {
		close(s.stopPrune)
		s.stopPrune = nil
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
