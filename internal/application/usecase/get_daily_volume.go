package usecase

import (
	"context"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
)

// GetDailyVolumeUseCase aggregates one calendar day of simulations per product.
type GetDailyVolumeUseCase struct {
	repo     port.SimulationRepository
	location *time.Location
	timeout  time.Duration
}

// NewGetDailyVolumeUseCase wires dependencies. A nil location means UTC.
func NewGetDailyVolumeUseCase(
	repo port.SimulationRepository,
	location *time.Location,
	timeout time.Duration,
) *GetDailyVolumeUseCase {
	if location == nil {
		location = time.UTC
	}
	return &GetDailyVolumeUseCase{repo: repo, location: location, timeout: timeout}
}

// Execute returns one row per product with at least one simulation that day.
func (uc *GetDailyVolumeUseCase) Execute(
	ctx context.Context,
	req dto.DailyVolumeRequest,
) (dto.DailyVolumeResponse, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	from, to := dayWindow(req.ReferenceDate, uc.location)
	volumes, err := uc.repo.AggregateByProduct(ctx, from, to)
	if err != nil {
		return dto.DailyVolumeResponse{}, storeError("aggregate by product", err)
	}

	products := make([]dto.ProductVolumeResponse, len(volumes))
	for i, v := range volumes {
		products[i] = toProductVolumeResponse(v)
	}
	return dto.DailyVolumeResponse{
		ReferenceDate: from.Format(time.DateOnly),
		Products:      products,
	}, nil
}
