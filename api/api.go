// Package api exposes the memory service over HTTP.
package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/pkg/memory"
	"github.com/pulsepolitics/recall/pkg/pipeline"
)

// Server is the HTTP server fronting the memory pipeline and gateway.
type Server struct {
	config   Config
	gateway  *memory.Gateway
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The gateway and pipeline are
// injected so they can be shared with CLI commands.
func NewServer(config Config, gateway *memory.Gateway, pipe *pipeline.Pipeline, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		gateway:  gateway,
		pipeline: pipe,
		logger:   logger,
		app:      app,
	}

	app.Get("/health", s.handleHealth)

	app.Post("/api/memory/process-tool-result", s.handleProcessToolResult)
	app.Post("/api/memory/enhance-query", s.handleEnhanceQuery)
	app.Post("/api/memory/save-user-discovery", s.handleSaveUserDiscovery)
	app.Post("/api/memory/search", s.handleSearchMemory)
	app.Get("/api/memory/stats", s.handleMemoryStats)

	app.Post("/api/politics/ingest", s.handleIngestPolitics)
	app.Post("/api/politics/search", s.handleSearchPolitics)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
