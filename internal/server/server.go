// Package server provides the HTTP API of the hotel concierge backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/forriz/concierge/internal/answer"
	"github.com/forriz/concierge/internal/booking"
	"github.com/forriz/concierge/internal/config"
	"github.com/forriz/concierge/internal/ingest"
	"github.com/forriz/concierge/internal/retriever"
	"github.com/forriz/concierge/internal/session"
	"github.com/forriz/concierge/internal/storage"
	"github.com/forriz/concierge/internal/vectorstore"
)

// Server is the HTTP server for the concierge API.
type Server struct {
	cfg       *config.Config
	pipeline  *ingest.Pipeline
	booking   *booking.Client
	retriever *retriever.Retriever
	generator answer.Generator
	sessions  session.Store
	vectors   vectorstore.Store
	auditLog  *storage.IngestLog
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. sessions and
// auditLog may be nil; the matching endpoints degrade accordingly.
func NewServer(
	cfg *config.Config,
	pipeline *ingest.Pipeline,
	bookingClient *booking.Client,
	ret *retriever.Retriever,
	generator answer.Generator,
	sessions session.Store,
	vectors vectorstore.Store,
	auditLog *storage.IngestLog,
	logger *zap.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		pipeline:  pipeline,
		booking:   bookingClient,
		retriever: ret,
		generator: generator,
		sessions:  sessions,
		vectors:   vectors,
		auditLog:  auditLog,
		logger:    logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Post("/indexing", s.handleIndexUpload)
	r.Post("/indexing-url", s.handleIndexBooking)
	r.Post("/ask-rag", s.handleAskRAG)
	r.Post("/ask-no-rag", s.handleAskDirect)

	r.Get("/api/v1/rooms", s.handleRooms)
	r.Get("/api/v1/status", s.handleStatus)
	if s.sessions != nil {
		r.Post("/api/v1/sessions", s.handleCreateSession)
		r.Get("/api/v1/sessions/{id}", s.handleGetSession)
		r.Delete("/api/v1/sessions/{id}", s.handleDeleteSession)
	}
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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
