package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/memory"
)

// --- Mock implementations ---

type mockCatalog struct {
	listFunc func(ctx context.Context) ([]model.Product, error)
}

func (m *mockCatalog) ListAll(ctx context.Context) ([]model.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return memory.SeedProducts(), nil
}

type failingRepo struct {
	*memory.SimulationStore
	err error
}

func (f failingRepo) Create(context.Context, model.Simulation) (int64, error) {
	return 0, f.err
}

type mockEventPublisher struct {
	publishErr error
}

func (m *mockEventPublisher) Publish(_ context.Context, _ ...event.DomainEvent) error {
	return m.publishErr
}

// --- Helpers ---

var testDay = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildHandler(catalog port.ProductCatalog, repo port.SimulationRepository) *SimulationHandler {
	policy := service.DefaultRequestPolicy()
	logger := discardLogger()

	return NewSimulationHandler(
		usecase.NewCreateSimulationUseCase(catalog, repo, &mockEventPublisher{}, nil, logger, usecase.CreateSimulationConfig{
			Policy:             policy,
			CatalogTimeout:     time.Second,
			PersistenceTimeout: time.Second,
			Location:           time.UTC,
			Now:                func() time.Time { return testDay },
		}),
		usecase.NewGetSimulationUseCase(repo, time.Second),
		usecase.NewListSimulationsUseCase(repo, policy, time.Second),
		usecase.NewGetDailyVolumeUseCase(repo, time.UTC, time.Second),
		usecase.NewListProductsUseCase(catalog, time.Second),
		usecase.NewListEligibleProductsUseCase(catalog, policy, time.Second),
		logger,
	)
}

func buildTestHandler() *SimulationHandler {
	return buildHandler(&mockCatalog{}, memory.NewSimulationStore())
}

func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %T: %v", err, err)
	assert.Equal(t, code, st.Code(), "expected gRPC code %s, got %s: %s", code, st.Code(), st.Message())
}

// --- Tests ---

func TestCreateSimulation(t *testing.T) {
	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		_, err := buildTestHandler().CreateSimulation(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unparseable value returns InvalidArgument", func(t *testing.T) {
		_, err := buildTestHandler().CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "1.000,00", Term: 12})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid value")
	})

	t.Run("policy violation returns InvalidArgument", func(t *testing.T) {
		_, err := buildTestHandler().CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "900", Term: 0})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "term")
	})

	t.Run("no eligible product returns FailedPrecondition", func(t *testing.T) {
		_, err := buildTestHandler().CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "10000.50", Term: 12})
		requireGRPCCode(t, err, codes.FailedPrecondition)
	})

	t.Run("catalog failure returns Unavailable", func(t *testing.T) {
		catalog := &mockCatalog{listFunc: func(context.Context) ([]model.Product, error) {
			return nil, errors.New("dial tcp: connection refused")
		}}
		_, err := buildHandler(catalog, memory.NewSimulationStore()).CreateSimulation(context.Background(),
			&CreateSimulationRequest{Value: "900", Term: 5})
		requireGRPCCode(t, err, codes.Unavailable)
		assert.NotContains(t, err.Error(), "connection refused")
	})

	t.Run("storage failure returns opaque Internal", func(t *testing.T) {
		repo := failingRepo{SimulationStore: memory.NewSimulationStore(), err: errors.New("duplicate key value")}
		_, err := buildHandler(&mockCatalog{}, repo).CreateSimulation(context.Background(),
			&CreateSimulationRequest{Value: "900", Term: 5})
		requireGRPCCode(t, err, codes.Internal)
		assert.NotContains(t, err.Error(), "duplicate")
	})

	t.Run("success", func(t *testing.T) {
		resp, err := buildTestHandler().CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "900.00", Term: 5})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Simulation.ID)
		assert.Equal(t, 1, resp.Simulation.ProductCode)
		require.Len(t, resp.Simulation.Schedules, 2)
	})
}

func TestGetSimulation(t *testing.T) {
	h := buildTestHandler()
	created, err := h.CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "5000", Term: 12})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		resp, err := h.GetSimulation(context.Background(), &GetSimulationRequest{ID: created.Simulation.ID})
		require.NoError(t, err)
		assert.True(t, created.Simulation.TotalInstallments.Equal(resp.Simulation.TotalInstallments))
	})

	t.Run("missing returns NotFound", func(t *testing.T) {
		_, err := h.GetSimulation(context.Background(), &GetSimulationRequest{ID: 404})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("non-positive id returns InvalidArgument", func(t *testing.T) {
		_, err := h.GetSimulation(context.Background(), &GetSimulationRequest{ID: 0})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})
}

func TestListSimulations(t *testing.T) {
	h := buildTestHandler()
	for i := 0; i < 3; i++ {
		_, err := h.CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "1500", Term: 10})
		require.NoError(t, err)
	}

	t.Run("defaults when empty", func(t *testing.T) {
		resp, err := h.ListSimulations(context.Background(), &ListSimulationsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 3, resp.TotalRecords)
		assert.Equal(t, 3, resp.PageRecords)
	})

	t.Run("explicit page", func(t *testing.T) {
		resp, err := h.ListSimulations(context.Background(), &ListSimulationsRequest{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, resp.Records, 1)
		assert.Equal(t, int64(1), resp.Records[0].ID)
	})

	t.Run("oversized page returns InvalidArgument", func(t *testing.T) {
		_, err := h.ListSimulations(context.Background(), &ListSimulationsRequest{Page: 1, PageSize: 101})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})
}

func TestGetDailyVolume(t *testing.T) {
	h := buildTestHandler()
	_, err := h.CreateSimulation(context.Background(), &CreateSimulationRequest{Value: "900", Term: 5})
	require.NoError(t, err)

	resp, err := h.GetDailyVolume(context.Background(), &GetDailyVolumeRequest{ReferenceDate: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.ReferenceDate)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, 1, resp.Products[0].ProductCode)

	_, err = h.GetDailyVolume(context.Background(), &GetDailyVolumeRequest{})
	requireGRPCCode(t, err, codes.InvalidArgument)

	_, err = h.GetDailyVolume(context.Background(), &GetDailyVolumeRequest{ReferenceDate: "10/03/2025"})
	requireGRPCCode(t, err, codes.InvalidArgument)
}

func TestProducts(t *testing.T) {
	h := buildTestHandler()

	all, err := h.ListProducts(context.Background(), &ListProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Products, 4)

	eligible, err := h.ListEligibleProducts(context.Background(), &ListEligibleProductsRequest{Value: "20000", Term: 30})
	require.NoError(t, err)
	require.Len(t, eligible.Products, 1)
	assert.Equal(t, 2, eligible.Products[0].Code)

	_, err = h.ListEligibleProducts(context.Background(), &ListEligibleProductsRequest{Value: "", Term: 30})
	requireGRPCCode(t, err, codes.InvalidArgument)

	_, err = h.ListEligibleProducts(context.Background(), &ListEligibleProductsRequest{Value: "20000000", Term: 30})
	requireGRPCCode(t, err, codes.InvalidArgument)
}
