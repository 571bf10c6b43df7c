// Package memory mediates reads and writes against a remote semantic-memory
// and knowledge-graph backend.
//
// The [Driver] interface is the seam to the remote service: an append-only
// session log plus a named group graph accepting merged JSON documents and
// edge search. Drivers own transport and authentication; they never retry.
// The [Gateway] layers the retry policy, validation, and the
// degrade-to-empty read semantics on top of a Driver.
package memory

import (
	"context"
	"encoding/json"
)

// Message is a single record appended to a session on the remote backend.
type Message struct {
	// UUID uniquely identifies the message. Drivers assign one when empty.
	UUID string `json:"uuid,omitempty"`

	// Role is the speaker role recorded with the message.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Metadata is an open mapping describing provenance, tags, and time.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is set by the backend on stored messages.
	CreatedAt string `json:"created_at,omitempty"`
}

// Session is the remote backend's view of a named append-only message log.
type Session struct {
	Messages  []Message `json:"messages"`
	CreatedAt string    `json:"created_at,omitempty"`
	UpdatedAt string    `json:"updated_at,omitempty"`
}

// SearchEntry is one ranked result from a semantic session search. Backends
// differ in shape: some nest the matched message, some return bare content.
type SearchEntry struct {
	Message *Message `json:"message,omitempty"`
	Content string   `json:"content,omitempty"`
	Score   float32  `json:"score,omitempty"`
}

// Edge is one result from a graph edge search. Content or Fact carry the
// textual representation when the backend provides one; Raw preserves the
// entire edge object for stringification when neither is set.
type Edge struct {
	Content string          `json:"content,omitempty"`
	Fact    string          `json:"fact,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Driver handles the remote backend operations consumed by the Gateway.
// Implementations must be substitutable with any compatible memory/graph
// service.
type Driver interface {
	// AppendMessage appends a message to the named session.
	AppendMessage(ctx context.Context, sessionID string, msg Message) error

	// SearchSession runs a semantic search over the named session.
	SearchSession(ctx context.Context, sessionID, query string, limit int) ([]SearchEntry, error)

	// GetSession fetches the full session, messages included.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// DeleteSession removes the entire session. Destructive.
	DeleteSession(ctx context.Context, sessionID string) error

	// CreateGroup creates a named group graph. Returns ErrGroupExists when
	// the group is already present.
	CreateGroup(ctx context.Context, groupID, name, description string) error

	// MergeGraphData merges a JSON document into the named group graph.
	MergeGraphData(ctx context.Context, groupID string, data []byte) error

	// SearchGraphEdges searches the group graph for matching edges.
	SearchGraphEdges(ctx context.Context, groupID, query string, limit int) ([]Edge, error)

	// Close releases any resources held by the driver.
	Close() error
}
