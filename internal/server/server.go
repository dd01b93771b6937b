// Package server provides the HTTP API consumed by the UI and CLI collaborators.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pattarin/rdrag/internal/config"
	"github.com/pattarin/rdrag/internal/feedback"
	"github.com/pattarin/rdrag/internal/index"
	"github.com/pattarin/rdrag/internal/pipeline"
	"go.uber.org/zap"
)

// askTimeout bounds one /ask request. The backend call dominates, so this
// mirrors the backend timeout with headroom for retrieval and index builds.
const askTimeout = 330 * time.Second

// Server is the HTTP server for the rdrag API.
type Server struct {
	pipeline *pipeline.Pipeline
	feedback *feedback.Store
	indexes  *index.Store
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	p *pipeline.Pipeline,
	store *feedback.Store,
	indexes *index.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline: p,
		feedback: store,
		indexes:  indexes,
		config:   cfg,
		logger:   logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(askTimeout))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/ask", s.handleAsk)
	r.Get("/api/v1/feedback", s.handleFeedback)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler builds the router without binding a listener, for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/v1/ask", s.handleAsk)
	r.Get("/api/v1/feedback", s.handleFeedback)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}
