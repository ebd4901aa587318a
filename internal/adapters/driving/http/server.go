package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/veridian-labs/docguard-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	maxUpload  int64

	// Services
	ingestService driving.IngestService
	docService    driving.DocumentService

	// Infrastructure
	store Pinger // document store health check
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// MaxUploadBytes bounds the accepted upload size.
	MaxUploadBytes int64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8001,
		Version:        "dev",
		MaxUploadBytes: 32 << 20,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	ingestService driving.IngestService,
	docService driving.DocumentService,
	store Pinger,
) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}

	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		maxUpload:     cfg.MaxUploadBytes,
		ingestService: ingestService,
		docService:    docService,
		store:         store,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      CORS(RequireVersion(s.router)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Path-based versioning (backward compatible)
	s.router.HandleFunc("POST /api/v1/upload", s.handleUpload)
	s.router.HandleFunc("GET /api/v1/documents", s.handleListDocuments)
	s.router.HandleFunc("GET /api/v1/documents/{id}", s.handleGetDocument)
	s.router.HandleFunc("GET /api/v1/documents/{id}/text", s.handleGetDocumentText)
	s.router.HandleFunc("GET /api/v1/statistics", s.handleStatistics)

	// Header-based versioning via X-API-Version
	s.router.HandleFunc("POST /api/upload", s.handleUpload)
	s.router.HandleFunc("GET /api/documents", s.handleListDocuments)
	s.router.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	s.router.HandleFunc("GET /api/documents/{id}/text", s.handleGetDocumentText)
	s.router.HandleFunc("GET /api/statistics", s.handleStatistics)
}

// Handler returns the root handler, wrapped with middleware. Exposed for
// tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
