package eventstream

import (
	"time"

	"github.com/google/uuid"
)

// NewMemorySavedEvent builds a MemorySavedEvent with schema fields, a fresh
// event id and the current emit time filled in.
func NewMemorySavedEvent(sessionID, source string, tags []string, preview string) *MemorySavedEvent {
	return &MemorySavedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeMemorySaved,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		SessionID:     sessionID,
		Source:        source,
		Tags:          tags,
		Preview:       preview,
	}
}
