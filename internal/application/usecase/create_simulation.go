package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// CreateSimulationConfig tunes the create-simulation workflow.
type CreateSimulationConfig struct {
	Policy             service.RequestPolicy
	CatalogTimeout     time.Duration
	PersistenceTimeout time.Duration
	// Location is the time zone simulations are stamped in. Defaults to UTC.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// CreateSimulationUseCase validates a request, selects the cheapest eligible
// product, computes both schedules, persists them atomically and announces
// the new simulation.
type CreateSimulationUseCase struct {
	catalog   port.ProductCatalog
	repo      port.SimulationRepository
	publisher port.EventPublisher
	metrics   port.SimulationMetrics
	selector  *service.ProductSelector
	logger    *slog.Logger
	cfg       CreateSimulationConfig
}

// NewCreateSimulationUseCase wires dependencies. metrics and logger may be nil.
func NewCreateSimulationUseCase(
	catalog port.ProductCatalog,
	repo port.SimulationRepository,
	publisher port.EventPublisher,
	metrics port.SimulationMetrics,
	logger *slog.Logger,
	cfg CreateSimulationConfig,
) *CreateSimulationUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CreateSimulationUseCase{
		catalog:   catalog,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		selector:  service.NewProductSelector(),
		logger:    logger,
		cfg:       cfg,
	}
}

// Execute runs one simulation request to completion.
func (uc *CreateSimulationUseCase) Execute(
	ctx context.Context,
	req dto.CreateSimulationRequest,
) (dto.SimulationResponse, error) {
	began := time.Now()
	resp, outcome, err := uc.run(ctx, req)
	uc.metrics.SimulationFinished(ctx, outcome, time.Since(began))
	return resp, err
}

func (uc *CreateSimulationUseCase) run(
	ctx context.Context,
	req dto.CreateSimulationRequest,
) (dto.SimulationResponse, valueobject.SimulationOutcome, error) {
	// 1. Validate the request shape and value tiers. No I/O before this passes.
	if err := uc.cfg.Policy.ValidateSimulation(req.Value, req.Term); err != nil {
		return dto.SimulationResponse{}, valueobject.OutcomeRejected, err
	}

	// 2. Select the cheapest eligible product from a fresh catalog read.
	catalogCtx, cancel := withTimeout(ctx, uc.cfg.CatalogTimeout)
	products, err := uc.catalog.ListAll(catalogCtx)
	cancel()
	if err != nil {
		return dto.SimulationResponse{}, valueobject.OutcomeFailed,
			fmt.Errorf("%w: list products: %w", ErrUnavailable, err)
	}
	product, err := uc.selector.Select(products, req.Value, req.Term)
	if err != nil {
		return dto.SimulationResponse{}, valueobject.OutcomeRejected, err
	}

	// 3. Compute both schedules.
	schedules, err := model.CalculateSchedules(req.Value, product.AnnualRate, req.Term)
	if err != nil {
		return dto.SimulationResponse{}, valueobject.OutcomeFailed, fmt.Errorf("calculate schedules: %w", err)
	}
	sim, err := model.NewSimulation(req.Value, req.Term, product, schedules, uc.cfg.Now().In(uc.cfg.Location))
	if err != nil {
		return dto.SimulationResponse{}, valueobject.OutcomeFailed, fmt.Errorf("create simulation: %w", err)
	}

	// 4. Persist. A caller that is already gone is abandoned here; once the
	// write starts it is detached from the caller and bounded by its own timeout.
	if err := ctx.Err(); err != nil {
		return dto.SimulationResponse{}, valueobject.OutcomeFailed, fmt.Errorf("abandon before persist: %w", err)
	}
	writeCtx, cancel := withTimeout(context.WithoutCancel(ctx), uc.cfg.PersistenceTimeout)
	id, err := uc.repo.Create(writeCtx, sim)
	cancel()
	if err != nil {
		uc.logger.ErrorContext(ctx, "persist simulation failed",
			"value", req.Value.String(), "term", req.Term, "product_code", product.Code, "error", err)
		return dto.SimulationResponse{}, valueobject.OutcomeFailed, storeError("save simulation", err)
	}
	sim = sim.Persisted(id)

	// 5. Notify downstream consumers. Failure never undoes step 4.
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), sim.DomainEvents()...); err != nil {
		uc.logger.WarnContext(ctx, "publish simulation created failed",
			"simulation_id", id, "error", err)
	}

	// 6. Respond from the in-memory result.
	return toSimulationResponse(sim), valueobject.OutcomeCreated, nil
}

type noopMetrics struct{}

func (noopMetrics) SimulationFinished(context.Context, valueobject.SimulationOutcome, time.Duration) {}
