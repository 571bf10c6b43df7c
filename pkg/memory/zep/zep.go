// Package zep provides a memory.Driver backed by a Zep-compatible REST API.
package zep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/pkg/memory"
)

// Config holds configuration for the Zep driver.
type Config struct {
	// URL is the backend base URL (e.g. "https://api.getzep.com").
	URL string

	// APIKey authenticates every request.
	APIKey string
}

// Driver implements memory.Driver against a Zep-compatible REST API.
type Driver struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDriver creates a new Zep driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("zep URL is required")
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("zep API key is required")
	}

	d := &Driver{
		baseURL: strings.TrimRight(c.URL, "/"),
		apiKey:  c.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}

	logger.Info("configured zep memory backend",
		zap.String("url", d.baseURL),
	)

	return d, nil
}

// send issues one JSON request and returns the status code and raw body.
func (d *Driver) send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+d.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// AppendMessage appends a message to the named session, assigning a UUID
// when the caller did not provide one.
func (d *Driver) AppendMessage(ctx context.Context, sessionID string, msg memory.Message) error {
	if msg.UUID == "" {
		msg.UUID = uuid.NewString()
	}

	path := fmt.Sprintf("/api/v2/sessions/%s/memory", url.PathEscape(sessionID))
	status, body, err := d.send(ctx, http.MethodPost, path, appendRequest{Messages: []memory.Message{msg}})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("failed to append message: status %d: %s", status, string(body))
	}

	d.logger.Debug("appended message",
		zap.String("session_id", sessionID),
		zap.String("uuid", msg.UUID),
	)
	return nil
}

// SearchSession runs a semantic search over the named session.
func (d *Driver) SearchSession(ctx context.Context, sessionID, query string, limit int) ([]memory.SearchEntry, error) {
	path := fmt.Sprintf("/api/v2/sessions/%s/search", url.PathEscape(sessionID))
	status, body, err := d.send(ctx, http.MethodPost, path, searchRequest{Text: query, Limit: limit})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("failed to search session: status %d: %s", status, string(body))
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	d.logger.Debug("searched session",
		zap.String("session_id", sessionID),
		zap.Int("results", len(resp.Results)),
	)
	return resp.Results, nil
}

// GetSession fetches the full session, messages included.
func (d *Driver) GetSession(ctx context.Context, sessionID string) (*memory.Session, error) {
	path := fmt.Sprintf("/api/v2/sessions/%s/memory", url.PathEscape(sessionID))
	status, body, err := d.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("failed to get session: status %d: %s", status, string(body))
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding session response: %w", err)
	}

	return &memory.Session{
		Messages:  resp.Messages,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}, nil
}

// DeleteSession removes the entire session.
func (d *Driver) DeleteSession(ctx context.Context, sessionID string) error {
	path := fmt.Sprintf("/api/v2/sessions/%s/memory", url.PathEscape(sessionID))
	status, body, err := d.send(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("failed to delete session: status %d: %s", status, string(body))
	}

	d.logger.Debug("deleted session", zap.String("session_id", sessionID))
	return nil
}

// CreateGroup creates a named group graph. A backend conflict response is
// mapped to memory.ErrGroupExists so callers can treat it as idempotent.
func (d *Driver) CreateGroup(ctx context.Context, groupID, name, description string) error {
	status, body, err := d.send(ctx, http.MethodPost, "/api/v2/groups", createGroupRequest{
		GroupID:     groupID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return nil
	case status == http.StatusConflict,
		status == http.StatusBadRequest && strings.Contains(strings.ToLower(string(body)), "already"):
		// The backend signals an existing group as a 400 with an
		// "already exists" message.
		return memory.ErrGroupExists
	default:
		return fmt.Errorf("failed to create group: status %d: %s", status, string(body))
	}
}

// MergeGraphData merges a JSON document into the named group graph.
func (d *Driver) MergeGraphData(ctx context.Context, groupID string, data []byte) error {
	status, body, err := d.send(ctx, http.MethodPost, "/api/v2/graph", mergeGraphRequest{
		GroupID: groupID,
		Type:    "json",
		Data:    string(data),
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated && status != http.StatusAccepted {
		return fmt.Errorf("failed to merge graph data: status %d: %s", status, string(body))
	}

	d.logger.Debug("merged graph data",
		zap.String("group_id", groupID),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// SearchGraphEdges searches the group graph for matching edges.
func (d *Driver) SearchGraphEdges(ctx context.Context, groupID, query string, limit int) ([]memory.Edge, error) {
	status, body, err := d.send(ctx, http.MethodPost, "/api/v2/graph/search", graphSearchRequest{
		GroupID: groupID,
		Query:   query,
		Scope:   "edges",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("failed to search graph: status %d: %s", status, string(body))
	}

	var resp graphSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding graph search response: %w", err)
	}

	edges := make([]memory.Edge, 0, len(resp.Edges))
	for _, raw := range resp.Edges {
		var fields edgeFields
		// Shape varies per backend; unknown shapes stay raw-only.
		_ = json.Unmarshal(raw, &fields)
		edges = append(edges, memory.Edge{
			Content: fields.Content,
			Fact:    fields.Fact,
			Raw:     raw,
		})
	}

	d.logger.Debug("searched graph edges",
		zap.String("group_id", groupID),
		zap.Int("results", len(edges)),
	)
	return edges, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}
