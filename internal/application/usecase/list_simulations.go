package usecase

import (
	"context"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
)

// ListSimulationsUseCase pages through simulations, most recent first.
type ListSimulationsUseCase struct {
	repo    port.SimulationRepository
	policy  service.RequestPolicy
	timeout time.Duration
}

// NewListSimulationsUseCase wires dependencies.
func NewListSimulationsUseCase(
	repo port.SimulationRepository,
	policy service.RequestPolicy,
	timeout time.Duration,
) *ListSimulationsUseCase {
	return &ListSimulationsUseCase{repo: repo, policy: policy, timeout: timeout}
}

// Execute returns the requested page. A page past the end is empty, not an error.
func (uc *ListSimulationsUseCase) Execute(
	ctx context.Context,
	req dto.ListSimulationsRequest,
) (dto.ListSimulationsResponse, error) {
	if err := uc.policy.ValidatePage(req.Page, req.PageSize); err != nil {
		return dto.ListSimulationsResponse{}, err
	}

	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	offset := (req.Page - 1) * req.PageSize
	rows, total, err := uc.repo.List(ctx, offset, req.PageSize)
	if err != nil {
		return dto.ListSimulationsResponse{}, storeError("list simulations", err)
	}

	records := make([]dto.SimulationSummaryResponse, len(rows))
	for i, r := range rows {
		records[i] = dto.SimulationSummaryResponse{
			ID:                r.ID,
			Value:             r.Value,
			Term:              r.Term,
			TotalInstallments: r.TotalInstallments,
		}
	}

	return dto.ListSimulationsResponse{
		Page:         req.Page,
		TotalRecords: total,
		PageRecords:  len(records),
		Records:      records,
	}, nil
}
