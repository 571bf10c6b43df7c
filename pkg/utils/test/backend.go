// Package testutils provides shared mocks for tests.
package testutils

import (
	"context"

	"github.com/pulsepolitics/recall/pkg/memory"
)

// AppendCall records one AppendMessage invocation on the mock backend.
type AppendCall struct {
	SessionID string
	Message   memory.Message
}

// MockBackend is a scripted memory.Driver for tests. Calls are recorded and
// return the configured results or errors.
type MockBackend struct {
	AppendCalls      []AppendCall
	SearchCalls      int
	GetCalls         int
	DeleteCalls      int
	CreateGroupCalls int
	MergeCalls       [][]byte
	GraphSearchCalls int

	SearchResults []memory.SearchEntry
	Session       *memory.Session
	Edges         []memory.Edge

	AppendErr      error
	SearchErr      error
	GetErr         error
	DeleteErr      error
	CreateGroupErr error
	MergeErr       error
	GraphSearchErr error
}

// NewMockBackend creates an empty mock backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Session: &memory.Session{},
	}
}

func (m *MockBackend) AppendMessage(_ context.Context, sessionID string, msg memory.Message) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.AppendCalls = append(m.AppendCalls, AppendCall{SessionID: sessionID, Message: msg})
	return nil
}

func (m *MockBackend) SearchSession(_ context.Context, _, _ string, limit int) ([]memory.SearchEntry, error) {
	m.SearchCalls++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.SearchResults) > limit {
		return m.SearchResults[:limit], nil
	}
	return m.SearchResults, nil
}

func (m *MockBackend) GetSession(_ context.Context, _ string) (*memory.Session, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Session, nil
}

func (m *MockBackend) DeleteSession(_ context.Context, _ string) error {
	m.DeleteCalls++
	return m.DeleteErr
}

func (m *MockBackend) CreateGroup(_ context.Context, _, _, _ string) error {
	m.CreateGroupCalls++
	return m.CreateGroupErr
}

func (m *MockBackend) MergeGraphData(_ context.Context, _ string, data []byte) error {
	if m.MergeErr != nil {
		return m.MergeErr
	}
	m.MergeCalls = append(m.MergeCalls, data)
	return nil
}

func (m *MockBackend) SearchGraphEdges(_ context.Context, _, _ string, limit int) ([]memory.Edge, error) {
	m.GraphSearchCalls++
	if m.GraphSearchErr != nil {
		return nil, m.GraphSearchErr
	}
	if len(m.Edges) > limit {
		return m.Edges[:limit], nil
	}
	return m.Edges, nil
}

func (m *MockBackend) Close() error {
	return nil
}
