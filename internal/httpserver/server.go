// Package httpserver exposes projects, sessions and statistics over HTTP,
// pushes archive change notifications over WebSocket and mounts the MCP
// streamable endpoint.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"ccviewer/internal/projects"
	"ccviewer/internal/stats"
)

// Options wires the server to its collaborators. Hub and MCP are optional.
type Options struct {
	Tokens  []string
	Version string
	Store   *projects.Store
	Engine  *stats.Engine
	Hub     *Hub
	MCP     http.Handler
}

// HTTPServer represents the HTTP API server
type HTTPServer struct {
	router  chi.Router
	tokens  []string
	version string
	store   *projects.Store
	engine  *stats.Engine
	hub     *Hub
	mcp     http.Handler
	srv     *http.Server
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(opts Options) *HTTPServer {
	s := &HTTPServer{
		router:  chi.NewRouter(),
		tokens:  opts.Tokens,
		version: opts.Version,
		store:   opts.Store,
		engine:  opts.Engine,
		hub:     opts.Hub,
		mcp:     opts.MCP,
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up all HTTP routes with middleware
func (s *HTTPServer) registerRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(loggingMiddleware)

	// Health check (no auth required)
	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/api/projects", s.handleListProjects)
		r.Get("/api/projects/{projectID}/sessions", s.handleListSessions)
		r.Get("/api/projects/{projectID}/stats", s.handleProjectStats)
		r.Get("/api/stats", s.handleStats)

		if s.hub != nil {
			r.Get("/ws", s.hub.ServeWS)
		}
		if s.mcp != nil {
			r.Handle("/mcp", s.mcp)
		}
	})
}

// Handler returns the routed handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server on the given address
func (s *HTTPServer) ListenAndServe(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", addr).Int("tokens", len(s.tokens)).Msg("[HTTP] Starting server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes WebSocket clients.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
