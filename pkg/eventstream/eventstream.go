// Package eventstream publishes memory lifecycle events to an event stream
// backend so other agents sharing the knowledge graph can react to new
// public memory without polling.
package eventstream

import (
	"context"
	"time"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeMemorySaved is emitted after content is persisted to the
	// public-memory session.
	EventTypeMemorySaved = "recall.memory.saved"
)

// MemorySavedEvent is a transport-neutral payload describing a persisted
// piece of public memory.
type MemorySavedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// SessionID is the public-memory session the content was appended to.
	SessionID string `json:"session_id"`

	// Source names the tool or pipeline the content came from.
	Source string `json:"source,omitempty"`

	// Tags are the derived classification tags.
	Tags []string `json:"tags,omitempty"`

	// Preview is a truncated excerpt of the saved content.
	Preview string `json:"preview,omitempty"`
}

// Publisher publishes memory events to an event stream backend.
type Publisher interface {
	PublishSaved(ctx context.Context, event *MemorySavedEvent) error
	Close() error
}
