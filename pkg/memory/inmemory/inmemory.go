// Package inmemory implements memory.Driver on in-memory maps. It backs
// development setups running without real backend credentials; data does
// not survive a restart.
package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsepolitics/recall/pkg/memory"
)

// Driver is an in-memory memory.Driver. Safe for concurrent use.
type Driver struct {
	mu       sync.RWMutex
	sessions map[string]*session
	groups   map[string][][]byte
}

type session struct {
	messages  []memory.Message
	createdAt string
	updatedAt string
}

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		sessions: make(map[string]*session),
		groups:   make(map[string][][]byte),
	}
}

// AppendMessage appends a message to the session, creating the session on
// first use.
func (d *Driver) AppendMessage(_ context.Context, sessionID string, msg memory.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts := time.Now().UTC().Format(time.RFC3339)

	s, ok := d.sessions[sessionID]
	if !ok {
		s = &session{createdAt: ts}
		d.sessions[sessionID] = s
	}

	if msg.UUID == "" {
		msg.UUID = uuid.NewString()
	}
	if msg.CreatedAt == "" {
		msg.CreatedAt = ts
	}

	s.messages = append(s.messages, msg)
	s.updatedAt = ts

	return nil
}

// SearchSession scores messages by case-insensitive substring match. It is
// a stand-in for the backend's semantic ranking, good enough for dev use.
func (d *Driver) SearchSession(_ context.Context, sessionID, query string, limit int) ([]memory.SearchEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.sessions[sessionID]
	if !ok {
		return []memory.SearchEntry{}, nil
	}

	needle := strings.ToLower(query)

	entries := make([]memory.SearchEntry, 0, limit)
	for i := range s.messages {
		if !strings.Contains(strings.ToLower(s.messages[i].Content), needle) {
			continue
		}
		entries = append(entries, memory.SearchEntry{
			Message: &s.messages[i],
			Content: s.messages[i].Content,
			Score:   1,
		})
		if limit > 0 && len(entries) >= limit {
			break
		}
	}

	return entries, nil
}

// GetSession returns the session, or an empty one if it was never written.
func (d *Driver) GetSession(_ context.Context, sessionID string) (*memory.Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.sessions[sessionID]
	if !ok {
		return &memory.Session{}, nil
	}

	messages := make([]memory.Message, len(s.messages))
	copy(messages, s.messages)

	return &memory.Session{
		Messages:  messages,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}, nil
}

// DeleteSession removes the session. Deleting an absent session is a no-op.
func (d *Driver) DeleteSession(_ context.Context, sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.sessions, sessionID)
	return nil
}

// CreateGroup registers the group, returning memory.ErrGroupExists when it
// was already created.
func (d *Driver) CreateGroup(_ context.Context, groupID, _, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.groups[groupID]; ok {
		return memory.ErrGroupExists
	}

	d.groups[groupID] = nil
	return nil
}

// MergeGraphData appends the document to the group, creating the group on
// first use.
func (d *Driver) MergeGraphData(_ context.Context, groupID string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc := make([]byte, len(data))
	copy(doc, data)

	d.groups[groupID] = append(d.groups[groupID], doc)
	return nil
}

// SearchGraphEdges returns one edge per merged document containing the
// query as a substring.
func (d *Driver) SearchGraphEdges(_ context.Context, groupID, query string, limit int) ([]memory.Edge, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	needle := strings.ToLower(query)

	edges := make([]memory.Edge, 0, limit)
	for _, doc := range d.groups[groupID] {
		if !strings.Contains(strings.ToLower(string(doc)), needle) {
			continue
		}
		edges = append(edges, memory.Edge{Content: string(doc), Raw: doc})
		if limit > 0 && len(edges) >= limit {
			break
		}
	}

	return edges, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
