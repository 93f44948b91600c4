package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockCatalog struct {
	listAllFunc func(ctx context.Context) ([]model.Product, error)
	calls       int
}

func (m *mockCatalog) ListAll(ctx context.Context) ([]model.Product, error) {
	m.calls++
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return seedCatalog(), nil
}

type mockSimulationRepository struct {
	createFunc    func(ctx context.Context, sim model.Simulation) (int64, error)
	findByIDFunc  func(ctx context.Context, id int64) (model.Simulation, error)
	listFunc      func(ctx context.Context, offset, limit int) ([]model.SimulationSummary, int, error)
	aggregateFunc func(ctx context.Context, from, to time.Time) ([]model.ProductVolume, error)

	created []model.Simulation
}

func (m *mockSimulationRepository) Create(ctx context.Context, sim model.Simulation) (int64, error) {
	if m.createFunc != nil {
		id, err := m.createFunc(ctx, sim)
		if err == nil {
			m.created = append(m.created, sim)
		}
		return id, err
	}
	m.created = append(m.created, sim)
	return int64(len(m.created)), nil
}

func (m *mockSimulationRepository) FindByID(ctx context.Context, id int64) (model.Simulation, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockSimulationRepository) List(ctx context.Context, offset, limit int) ([]model.SimulationSummary, int, error) {
	return m.listFunc(ctx, offset, limit)
}

func (m *mockSimulationRepository) AggregateByProduct(ctx context.Context, from, to time.Time) ([]model.ProductVolume, error) {
	return m.aggregateFunc(ctx, from, to)
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, events...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	return nil
}

type mockTelemetryRepository struct {
	recordFunc    func(ctx context.Context, entry model.RequestTelemetry) error
	aggregateFunc func(ctx context.Context, from, to time.Time) ([]model.EndpointTelemetry, error)
	recorded      []model.RequestTelemetry
}

func (m *mockTelemetryRepository) Record(ctx context.Context, entry model.RequestTelemetry) error {
	m.recorded = append(m.recorded, entry)
	if m.recordFunc != nil {
		return m.recordFunc(ctx, entry)
	}
	return nil
}

func (m *mockTelemetryRepository) AggregateByEndpoint(ctx context.Context, from, to time.Time) ([]model.EndpointTelemetry, error) {
	return m.aggregateFunc(ctx, from, to)
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []valueobject.SimulationOutcome
}

func (m *recordingMetrics) SimulationFinished(_ context.Context, outcome valueobject.SimulationOutcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedCatalog() []model.Product {
	return []model.Product{
		{Code: 1, Name: "Produto 1", AnnualRate: dec("0.0179"), MinTerm: 0, MaxTerm: intPtr(24), MinValue: dec("200.00"), MaxValue: decPtr("10000.00")},
		{Code: 2, Name: "Produto 2", AnnualRate: dec("0.0175"), MinTerm: 25, MaxTerm: intPtr(48), MinValue: dec("10001.00"), MaxValue: decPtr("100000.00")},
		{Code: 3, Name: "Produto 3", AnnualRate: dec("0.0182"), MinTerm: 49, MaxTerm: intPtr(96), MinValue: dec("100000.01"), MaxValue: decPtr("1000000.00")},
		{Code: 4, Name: "Produto 4", AnnualRate: dec("0.0151"), MinTerm: 96, MinValue: dec("1000000.01")},
	}
}
