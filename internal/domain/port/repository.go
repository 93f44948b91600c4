package port

import (
	"context"
	"errors"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ProductCatalog is the read-only source of credit products.
type ProductCatalog interface {
	ListAll(ctx context.Context) ([]model.Product, error)
}

// SimulationRepository persists simulations together with every installment.
type SimulationRepository interface {
	// Create stores the simulation and both schedules atomically and returns
	// the assigned id. On error nothing is stored.
	Create(ctx context.Context, sim model.Simulation) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Simulation, error)
	// List orders by creation time descending, then id descending.
	List(ctx context.Context, offset, limit int) ([]model.SimulationSummary, int, error)
	// AggregateByProduct groups simulations created in [from, to).
	AggregateByProduct(ctx context.Context, from, to time.Time) ([]model.ProductVolume, error)
}

// TelemetryRepository is the append-only sink for request telemetry.
type TelemetryRepository interface {
	Record(ctx context.Context, entry model.RequestTelemetry) error
	// AggregateByEndpoint groups calls made in [from, to).
	AggregateByEndpoint(ctx context.Context, from, to time.Time) ([]model.EndpointTelemetry, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
