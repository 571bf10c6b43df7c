package testutils

import (
	"context"
	"errors"

	"github.com/pulsepolitics/recall/pkg/eventstream"
)

// MockPublisher records published memory events.
type MockPublisher struct {
	// Events accumulates all events passed to PublishSaved.
	Events []*eventstream.MemorySavedEvent

	// FailPublish causes PublishSaved to return an error.
	FailPublish bool
}

// NewMockPublisher creates an empty mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishSaved(_ context.Context, event *eventstream.MemorySavedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.FailPublish {
		return errors.New("publish failed")
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
