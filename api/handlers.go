package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body returned on any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProcessToolResultRequest is the body for POST /api/memory/process-tool-result.
type ProcessToolResultRequest struct {
	ToolName   string         `json:"tool_name"`
	ToolResult map[string]any `json:"tool_result"`
	UserQuery  string         `json:"user_query"`
}

// EnhanceQueryRequest is the body for POST /api/memory/enhance-query.
type EnhanceQueryRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SaveUserDiscoveryRequest is the body for POST /api/memory/save-user-discovery.
type SaveUserDiscoveryRequest struct {
	UserName        string `json:"user_name"`
	TwitterUsername string `json:"twitter_username"`
	Description     string `json:"description"`
	Category        string `json:"category"`
}

// SearchRequest is the body for the memory and politics search endpoints.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// handleHealth returns a liveness response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "recall",
	})
}

// handleProcessToolResult classifies a tool result and persists it when
// relevant.
func (s *Server) handleProcessToolResult(c *fiber.Ctx) error {
	var req ProcessToolResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}
	if req.ToolName == "" || req.ToolResult == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "tool_name and tool_result are required"})
	}

	result, err := s.pipeline.ProcessToolResult(c.Context(), req.ToolName, req.ToolResult, req.UserQuery)
	if err != nil {
		s.logger.Error("failed to process tool result",
			zap.String("tool", req.ToolName),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(result)
}

// handleEnhanceQuery augments a query with recalled memory context.
func (s *Server) handleEnhanceQuery(c *fiber.Ctx) error {
	var req EnhanceQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query field is required"})
	}

	return c.JSON(s.pipeline.EnhanceQuery(c.Context(), req.Query, req.Limit))
}

// handleSaveUserDiscovery records a user found by ML discovery.
func (s *Server) handleSaveUserDiscovery(c *fiber.Ctx) error {
	var req SaveUserDiscoveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}
	if req.UserName == "" || req.TwitterUsername == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user_name and twitter_username are required"})
	}

	saved := s.pipeline.SaveUserDiscovery(c.Context(), req.UserName, req.TwitterUsername, req.Description, req.Category)

	return c.JSON(fiber.Map{"success": saved})
}

// handleSearchMemory searches the public-memory session.
func (s *Server) handleSearchMemory(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query field is required"})
	}

	results := s.gateway.Search(c.Context(), req.Query, req.Limit)

	return c.JSON(fiber.Map{"results": results})
}

// handleMemoryStats reports public-memory session statistics. Backend
// failures are folded into the stats payload, never a 500.
func (s *Server) handleMemoryStats(c *fiber.Ctx) error {
	return c.JSON(s.gateway.Stats(c.Context()))
}

// handleIngestPolitics merges a JSON batch into the political group graph.
func (s *Server) handleIngestPolitics(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "missing JSON body"})
	}
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}

	if err := s.gateway.Ingest(c.Context(), body); err != nil {
		s.logger.Error("failed to ingest political batch", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// handleSearchPolitics searches the political group graph for edges.
func (s *Server) handleSearchPolitics(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query field is required"})
	}

	results := s.gateway.SearchGraph(c.Context(), req.Query, req.Limit)

	return c.JSON(fiber.Map{"results": results})
}
