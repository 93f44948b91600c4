package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
)

// GetSimulationUseCase reads one simulation with both schedules.
type GetSimulationUseCase struct {
	repo    port.SimulationRepository
	timeout time.Duration
}

// NewGetSimulationUseCase wires dependencies.
func NewGetSimulationUseCase(repo port.SimulationRepository, timeout time.Duration) *GetSimulationUseCase {
	return &GetSimulationUseCase{repo: repo, timeout: timeout}
}

// Execute returns found=false, with no error, when the id does not exist.
func (uc *GetSimulationUseCase) Execute(
	ctx context.Context,
	req dto.GetSimulationRequest,
) (dto.SimulationResponse, bool, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	sim, err := uc.repo.FindByID(ctx, req.ID)
	if errors.Is(err, port.ErrNotFound) {
		return dto.SimulationResponse{}, false, nil
	}
	if err != nil {
		return dto.SimulationResponse{}, false, storeError("find simulation", err)
	}
	return toSimulationResponse(sim), true, nil
}
