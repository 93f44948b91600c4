// Package kafka publishes domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	pkgkafka "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/kafka"
)

// Producer is satisfied by *pkgkafka.Producer.
type Producer interface {
	Topic() string
	Publish(ctx context.Context, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher on a Producer.
type EventPublisher struct {
	producer Producer
	logger   *slog.Logger
}

func NewEventPublisher(producer Producer, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{producer: producer, logger: logger}
}

// envelope carries the routing metadata consumers filter on without decoding
// the payload.
func envelope(evt event.DomainEvent) map[string]string {
	return map[string]string{
		"event_type": evt.EventType(),
		"event_id":   evt.EventID(),
		"timestamp":  evt.OccurredAt().UTC().Format(time.RFC3339Nano),
		"source":     event.Source,
	}
}

// Publish sends events keyed by aggregate id, so the events of one
// simulation stay ordered within a partition.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, len(events))
	for i, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		messages[i] = pkgkafka.Message{
			Key:     []byte(evt.AggregateID()),
			Value:   payload,
			Headers: envelope(evt),
		}
	}

	if err := p.producer.Publish(ctx, messages...); err != nil {
		return fmt.Errorf("publish %d events to %s: %w", len(messages), p.producer.Topic(), err)
	}
	p.logger.DebugContext(ctx, "events published", "count", len(messages), "topic", p.producer.Topic())
	return nil
}
