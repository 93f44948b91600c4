package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/testutil"
)

func newCreateUseCase(
	catalog *mockCatalog,
	repo *mockSimulationRepository,
	publisher *mockEventPublisher,
	metrics *recordingMetrics,
	mutate func(*usecase.CreateSimulationConfig),
) *usecase.CreateSimulationUseCase {
	cfg := usecase.CreateSimulationConfig{
		Policy:             service.DefaultRequestPolicy(),
		CatalogTimeout:     time.Second,
		PersistenceTimeout: time.Second,
		Now:                func() time.Time { return testutil.FixedTime },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	var m port.SimulationMetrics
	if metrics != nil {
		m = metrics
	}
	return usecase.NewCreateSimulationUseCase(catalog, repo, publisher, m, nil, cfg)
}

func TestCreateSimulation_Execute(t *testing.T) {
	t.Run("creates a simulation with both schedules", func(t *testing.T) {
		catalog := &mockCatalog{}
		repo := &mockSimulationRepository{}
		publisher := &mockEventPublisher{}
		metrics := &recordingMetrics{}

		uc := newCreateUseCase(catalog, repo, publisher, metrics, nil)

		resp, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900.00"), Term: 5})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, 1, resp.ProductCode)
		assert.Equal(t, "Produto 1", resp.ProductName)
		assert.True(t, dec("0.0179").Equal(resp.AnnualRate))
		assert.True(t, testutil.FixedTime.Equal(resp.CreatedAt))

		require.Len(t, resp.Schedules, 2)
		assert.Equal(t, "SAC", resp.Schedules[0].Type)
		assert.Equal(t, "PRICE", resp.Schedules[1].Type)
		for _, s := range resp.Schedules {
			require.Len(t, s.Installments, 5)
		}
		first := resp.Schedules[0].Installments[0]
		assert.Equal(t, "180.00", first.Amortization.StringFixed(2))
		assert.Equal(t, "1.34", first.Interest.StringFixed(2))
		assert.Equal(t, "181.34", first.Payment.StringFixed(2))

		require.Len(t, repo.created, 1)
		assert.True(t, repo.created[0].TotalInstallments().Equal(resp.TotalInstallments))

		require.Len(t, publisher.publishedEvents, 1)
		created, ok := publisher.publishedEvents[0].(event.SimulationCreated)
		require.True(t, ok)
		assert.Equal(t, event.SimulationCreatedType, created.EventType())
		assert.Equal(t, int64(1), created.SimulationID)
		assert.Equal(t, 5, created.Term)
		assert.Equal(t, 1, created.ProductCode)

		assert.Equal(t, []valueobject.SimulationOutcome{valueobject.OutcomeCreated}, metrics.outcomes)
	})

	t.Run("stamps creation time in the configured zone", func(t *testing.T) {
		loc := time.FixedZone("BRT", -3*60*60)
		uc := newCreateUseCase(&mockCatalog{}, &mockSimulationRepository{}, &mockEventPublisher{}, nil,
			func(cfg *usecase.CreateSimulationConfig) { cfg.Location = loc })

		resp, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.NoError(t, err)
		_, offset := resp.CreatedAt.Zone()
		assert.Equal(t, -3*60*60, offset)
	})

	t.Run("rejects invalid input before any I/O", func(t *testing.T) {
		catalog := &mockCatalog{}
		repo := &mockSimulationRepository{}
		publisher := &mockEventPublisher{}
		metrics := &recordingMetrics{}

		uc := newCreateUseCase(catalog, repo, publisher, metrics, nil)

		_, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("500"), Term: 150})

		var verr *valueobject.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.HasField(service.FieldTerm))
		assert.Zero(t, catalog.calls)
		assert.Empty(t, repo.created)
		assert.Empty(t, publisher.publishedEvents)
		assert.Equal(t, []valueobject.SimulationOutcome{valueobject.OutcomeRejected}, metrics.outcomes)
	})

	t.Run("rejects when no product is eligible", func(t *testing.T) {
		catalog := &mockCatalog{
			listAllFunc: func(context.Context) ([]model.Product, error) {
				return []model.Product{{Code: 9, Name: "Big", AnnualRate: dec("0.01"), MinValue: dec("5000")}}, nil
			},
		}
		repo := &mockSimulationRepository{}
		publisher := &mockEventPublisher{}
		metrics := &recordingMetrics{}

		uc := newCreateUseCase(catalog, repo, publisher, metrics, nil)

		_, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("1000"), Term: 12})

		require.ErrorIs(t, err, service.ErrNoEligibleProduct)
		assert.Empty(t, repo.created)
		assert.Empty(t, publisher.publishedEvents)
		assert.Equal(t, []valueobject.SimulationOutcome{valueobject.OutcomeRejected}, metrics.outcomes)
	})

	t.Run("reports catalog failure as unavailable", func(t *testing.T) {
		catalog := &mockCatalog{
			listAllFunc: func(context.Context) ([]model.Product, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}
		repo := &mockSimulationRepository{}
		metrics := &recordingMetrics{}

		uc := newCreateUseCase(catalog, repo, &mockEventPublisher{}, metrics, nil)

		_, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.ErrorIs(t, err, usecase.ErrUnavailable)
		assert.Empty(t, repo.created)
		assert.Equal(t, []valueobject.SimulationOutcome{valueobject.OutcomeFailed}, metrics.outcomes)
	})

	t.Run("bounds the catalog read by its timeout", func(t *testing.T) {
		catalog := &mockCatalog{
			listAllFunc: func(ctx context.Context) ([]model.Product, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		uc := newCreateUseCase(catalog, &mockSimulationRepository{}, &mockEventPublisher{}, nil,
			func(cfg *usecase.CreateSimulationConfig) { cfg.CatalogTimeout = 10 * time.Millisecond })

		_, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.ErrorIs(t, err, usecase.ErrUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("reports storage failure as persistence error", func(t *testing.T) {
		repo := &mockSimulationRepository{
			createFunc: func(context.Context, model.Simulation) (int64, error) {
				return 0, errors.New("insert installments: unique violation")
			},
		}
		publisher := &mockEventPublisher{}
		metrics := &recordingMetrics{}

		uc := newCreateUseCase(&mockCatalog{}, repo, publisher, metrics, nil)

		_, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.ErrorIs(t, err, usecase.ErrPersistence)
		assert.NotErrorIs(t, err, usecase.ErrUnavailable)
		assert.Empty(t, publisher.publishedEvents)
		assert.Equal(t, []valueobject.SimulationOutcome{valueobject.OutcomeFailed}, metrics.outcomes)
	})

	t.Run("reports storage timeout as unavailable", func(t *testing.T) {
		repo := &mockSimulationRepository{
			createFunc: func(ctx context.Context, _ model.Simulation) (int64, error) {
				<-ctx.Done()
				return 0, ctx.Err()
			},
		}
		uc := newCreateUseCase(&mockCatalog{}, repo, &mockEventPublisher{}, nil,
			func(cfg *usecase.CreateSimulationConfig) { cfg.PersistenceTimeout = 10 * time.Millisecond })

		_, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.ErrorIs(t, err, usecase.ErrUnavailable)
	})

	t.Run("succeeds when notification fails", func(t *testing.T) {
		repo := &mockSimulationRepository{}
		publisher := &mockEventPublisher{
			publishFunc: func(context.Context, ...event.DomainEvent) error {
				return errors.New("broker down")
			},
		}
		metrics := &recordingMetrics{}

		uc := newCreateUseCase(&mockCatalog{}, repo, publisher, metrics, nil)

		resp, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Len(t, repo.created, 1)
		assert.Equal(t, []valueobject.SimulationOutcome{valueobject.OutcomeCreated}, metrics.outcomes)
	})

	t.Run("finishes the write when the caller leaves mid-flight", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := &mockSimulationRepository{
			createFunc: func(writeCtx context.Context, _ model.Simulation) (int64, error) {
				cancel()
				if err := writeCtx.Err(); err != nil {
					return 0, err
				}
				return 42, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := newCreateUseCase(&mockCatalog{}, repo, publisher, nil, nil)

		resp, err := uc.Execute(ctx, dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Len(t, publisher.publishedEvents, 1)
	})

	t.Run("abandons the request when the caller left before the write", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		repo := &mockSimulationRepository{}
		catalog := &mockCatalog{
			listAllFunc: func(context.Context) ([]model.Product, error) { return seedCatalog(), nil },
		}

		uc := newCreateUseCase(catalog, repo, &mockEventPublisher{}, nil, nil)

		_, err := uc.Execute(ctx, dto.CreateSimulationRequest{Value: dec("900"), Term: 5})

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, repo.created)
	})
}

func TestCreateSimulation_SelectsCheapestProduct(t *testing.T) {
	catalog := &mockCatalog{
		listAllFunc: func(context.Context) ([]model.Product, error) {
			return []model.Product{
				{Code: 1, Name: "Expensive", AnnualRate: dec("0.30"), MinValue: dec("0")},
				{Code: 2, Name: "Cheap", AnnualRate: dec("0.10"), MinValue: dec("0")},
				{Code: 3, Name: "Cheap twin", AnnualRate: dec("0.10"), MinValue: dec("0")},
			}, nil
		},
	}
	uc := newCreateUseCase(catalog, &mockSimulationRepository{}, &mockEventPublisher{}, nil, nil)

	resp, err := uc.Execute(context.Background(), dto.CreateSimulationRequest{Value: dec("100000"), Term: 12})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.ProductCode)
}
