// Package events defines the envelope shared by every event this service
// emits.
package events

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is bumped when the envelope changes incompatibly.
const SchemaVersion = 1

// DomainEvent is what publishers accept.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events. The fields are exported so the
// envelope is flattened into the event's JSON payload.
type BaseEvent struct {
	ID            string    `json:"event_id"`
	Type          string    `json:"event_type"`
	Version       int       `json:"schema_version"`
	Aggregate     string    `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewBaseEventAt returns an envelope with a fresh UUID, stamped at (in UTC).
func NewBaseEventAt(eventType, aggregateID, aggregateType string, at time.Time) BaseEvent {
	return BaseEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Version:       SchemaVersion,
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
		Timestamp:     at.UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.AggregateKind }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
