package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/pkg/backoff"
	"github.com/pulsepolitics/recall/pkg/utils"
)

// RoleAssistant is the role recorded on every message this service appends.
const RoleAssistant = "assistant"

// now is stubbed in tests to pin default timestamps.
var now = time.Now

// Config holds the Gateway's session and group bindings.
type Config struct {
	// SessionID names the public-memory session on the remote backend.
	SessionID string

	// GroupID names the shared knowledge-graph group.
	GroupID string

	// GroupName and GroupDescription are used when the group is created.
	GroupName        string
	GroupDescription string

	// Policy bounds retries for every backend call.
	Policy backoff.Policy
}

// Stats summarizes the public-memory session. Backend failures are reported
// through Err instead of an error return so the stats endpoint never fails.
type Stats struct {
	SessionID    string `json:"session_id,omitempty"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	Err          string `json:"error,omitempty"`
}

// Gateway orchestrates the remote backend: writes surface their errors,
// reads degrade to empty results, and every call runs under the retry
// policy. The driver is injected once at construction and shared for the
// life of the process.
type Gateway struct {
	config Config
	driver Driver
	logger *zap.Logger
}

// NewGateway creates a Gateway over the given driver.
func NewGateway(config Config, driver Driver, logger *zap.Logger) (*Gateway, error) {
	if driver == nil {
		return nil, fmt.Errorf("memory driver is required")
	}
	if config.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if config.Policy == (backoff.Policy{}) {
		config.Policy = backoff.DefaultPolicy()
	}
	return &Gateway{
		config: config,
		driver: driver,
		logger: logger,
	}, nil
}

// Add appends content to the public-memory session with role "assistant".
// Empty or whitespace-only content is a warned no-op. A ts metadata field
// is defaulted to the current UTC time when absent. Write failures after
// retries are surfaced to the caller.
func (g *Gateway) Add(ctx context.Context, content string, metadata map[string]any) error {
	if strings.TrimSpace(content) == "" {
		g.logger.Warn("empty content, skipping memory write")
		return nil
	}

	final := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		final[k] = v
	}
	if _, ok := final["ts"]; !ok {
		final["ts"] = now().UTC().Format(time.RFC3339)
	}

	msg := Message{
		Role:     RoleAssistant,
		Content:  content,
		Metadata: final,
	}

	err := backoff.Run(g.config.Policy, g.logger, func() error {
		return g.driver.AppendMessage(ctx, g.config.SessionID, msg)
	})
	if err != nil {
		g.logger.Error("failed to write public memory", zap.Error(err))
		return fmt.Errorf("adding to public memory: %w", err)
	}

	g.logger.Info("memory added",
		zap.String("preview", utils.Truncate(content, 50)),
	)
	return nil
}

// Search runs a semantic search over the public-memory session and returns
// the matched texts. An empty query returns an empty list without touching
// the backend. Any failure, retries included, degrades to an empty list:
// a failed search must not break the caller's flow.
func (g *Gateway) Search(ctx context.Context, query string, limit int) []string {
	if strings.TrimSpace(query) == "" {
		g.logger.Warn("empty memory search query")
		return []string{}
	}

	facts, err := g.searchSession(ctx, query, limit)
	if err != nil {
		g.logger.Error("memory search failed, returning no results",
			zap.String("query", query),
			zap.Error(err),
		)
		return []string{}
	}

	g.logger.Info("memory search",
		zap.String("query", query),
		zap.Int("results", len(facts)),
	)
	return facts
}

// searchSession is the fallible core of Search. It keeps the real error so
// internal callers and tests can distinguish failure kinds; only Search's
// public boundary collapses errors to an empty result.
func (g *Gateway) searchSession(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}

	entries, err := backoff.Retry(g.config.Policy, g.logger, func() ([]SearchEntry, error) {
		return g.driver.SearchSession(ctx, g.config.SessionID, query, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	facts := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.Message != nil && entry.Message.Content != "":
			facts = append(facts, entry.Message.Content)
		case entry.Content != "":
			facts = append(facts, entry.Content)
		}
	}

	if len(facts) > 0 {
		return facts, nil
	}

	// No semantic hits: degrade to a substring scan over the whole session.
	g.logger.Info("no semantic results, falling back to substring search",
		zap.String("query", query),
	)

	session, err := backoff.Retry(g.config.Policy, g.logger, func() (*Session, error) {
		return g.driver.GetSession(ctx, g.config.SessionID)
	})
	if err != nil {
		return nil, fmt.Errorf("session fetch for fallback search: %w", err)
	}

	needle := strings.ToLower(query)
	for _, msg := range session.Messages {
		if strings.Contains(strings.ToLower(msg.Content), needle) {
			facts = append(facts, msg.Content)
			if len(facts) >= limit {
				break
			}
		}
	}

	return facts, nil
}

// SearchGraph searches the shared knowledge-graph group for matching edges
// and returns one textual representation per edge: the content field when
// present, the fact field otherwise, and the stringified edge as a last
// resort. Failures degrade to an empty list.
func (g *Gateway) SearchGraph(ctx context.Context, query string, limit int) []string {
	if strings.TrimSpace(query) == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = 5
	}

	edges, err := backoff.Retry(g.config.Policy, g.logger, func() ([]Edge, error) {
		return g.driver.SearchGraphEdges(ctx, g.config.GroupID, query, limit)
	})
	if err != nil {
		g.logger.Error("graph search failed, returning no results",
			zap.String("query", query),
			zap.Error(err),
		)
		return []string{}
	}

	facts := make([]string, 0, len(edges))
	for _, edge := range edges {
		text := edge.Content
		if text == "" {
			text = edge.Fact
		}
		if text == "" {
			text = string(edge.Raw)
		}
		if text != "" {
			facts = append(facts, text)
		}
	}

	g.logger.Info("graph search",
		zap.String("query", query),
		zap.Int("results", len(facts)),
	)
	return facts
}

// Stats reports the session id, message count and timestamps of the
// public-memory session. Backend errors are folded into the Err field.
func (g *Gateway) Stats(ctx context.Context) Stats {
	session, err := backoff.Retry(g.config.Policy, g.logger, func() (*Session, error) {
		return g.driver.GetSession(ctx, g.config.SessionID)
	})
	if err != nil {
		g.logger.Error("failed to fetch memory stats", zap.Error(err))
		return Stats{Err: err.Error()}
	}

	return Stats{
		SessionID:    g.config.SessionID,
		MessageCount: len(session.Messages),
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

// Clear deletes the entire public-memory session. Failures are surfaced:
// a destructive operation must not fail silently.
func (g *Gateway) Clear(ctx context.Context) error {
	err := backoff.Run(g.config.Policy, g.logger, func() error {
		return g.driver.DeleteSession(ctx, g.config.SessionID)
	})
	if err != nil {
		g.logger.Error("failed to clear public memory", zap.Error(err))
		return fmt.Errorf("clearing public memory: %w", err)
	}

	g.logger.Info("public memory cleared", zap.String("session_id", g.config.SessionID))
	return nil
}

// EnsureGroup creates the shared knowledge-graph group if absent. An
// already-existing group is success; any other failure is surfaced.
func (g *Gateway) EnsureGroup(ctx context.Context) error {
	err := backoff.Run(g.config.Policy, g.logger, func() error {
		return g.driver.CreateGroup(ctx, g.config.GroupID, g.config.GroupName, g.config.GroupDescription)
	})
	if err != nil {
		if errors.Is(err, ErrGroupExists) {
			g.logger.Info("group graph already exists", zap.String("group_id", g.config.GroupID))
			return nil
		}
		return fmt.Errorf("ensuring group graph %q: %w", g.config.GroupID, err)
	}

	g.logger.Info("group graph created", zap.String("group_id", g.config.GroupID))
	return nil
}

// PopulateSeed merges seed data into the group graph. Missing seed data is
// a warned no-op, not an error.
func (g *Gateway) PopulateSeed(ctx context.Context, seed []byte) error {
	if len(bytes.TrimSpace(seed)) == 0 {
		g.logger.Warn("no seed data found, skipping initial population")
		return nil
	}

	err := backoff.Run(g.config.Policy, g.logger, func() error {
		return g.driver.MergeGraphData(ctx, g.config.GroupID, seed)
	})
	if err != nil {
		return fmt.Errorf("populating seed data: %w", err)
	}

	g.logger.Info("seed data merged into group graph", zap.String("group_id", g.config.GroupID))
	return nil
}

// Ingest merges an arbitrary JSON document into the group graph. Backend
// failures are surfaced to the caller.
func (g *Gateway) Ingest(ctx context.Context, batch []byte) error {
	if len(bytes.TrimSpace(batch)) == 0 {
		return fmt.Errorf("empty batch")
	}

	err := backoff.Run(g.config.Policy, g.logger, func() error {
		return g.driver.MergeGraphData(ctx, g.config.GroupID, batch)
	})
	if err != nil {
		g.logger.Error("failed to ingest batch", zap.Error(err))
		return fmt.Errorf("ingesting batch: %w", err)
	}

	g.logger.Info("batch ingested into group graph", zap.String("group_id", g.config.GroupID))
	return nil
}

// SessionID exposes the configured session for callers that report it.
func (g *Gateway) SessionID() string {
	return g.config.SessionID
}
