// Package kafka publishes memory events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	segmentio "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/pkg/eventstream"
)

// Config holds connection settings for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the topic memory events are written to.
	Topic string
}

// Publisher implements eventstream.Publisher on a kafka-go Writer.
type Publisher struct {
	writer *segmentio.Writer
	logger *zap.Logger
}

// NewPublisher creates a Kafka-backed eventstream publisher.
func NewPublisher(config Config, logger *zap.Logger) (*Publisher, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &segmentio.Writer{
		Addr:     segmentio.TCP(config.Brokers...),
		Topic:    config.Topic,
		Balancer: &segmentio.LeastBytes{},
	}

	logger.Info("connected kafka event publisher",
		zap.Strings("brokers", config.Brokers),
		zap.String("topic", config.Topic),
	)

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

// PublishSaved writes the event to the configured topic, keyed by session id
// so events for one session stay ordered within a partition.
func (p *Publisher) PublishSaved(ctx context.Context, event *eventstream.MemorySavedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling memory event: %w", err)
	}

	msg := segmentio.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing memory event: %w", err)
	}

	p.logger.Debug("published memory event",
		zap.String("event_id", event.EventID),
		zap.String("source", event.Source),
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
