package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

const defaultPageSize = 10

// Compile-time assertion that SimulationHandler implements SimulationServiceServer.
var _ SimulationServiceServer = (*SimulationHandler)(nil)

// SimulationHandler implements the gRPC SimulationService server.
type SimulationHandler struct {
	UnimplementedSimulationServiceServer
	create   *usecase.CreateSimulationUseCase
	get      *usecase.GetSimulationUseCase
	list     *usecase.ListSimulationsUseCase
	volume   *usecase.GetDailyVolumeUseCase
	products *usecase.ListProductsUseCase
	eligible *usecase.ListEligibleProductsUseCase

	logger *slog.Logger
}

// NewSimulationHandler creates a new handler with all use-case dependencies.
func NewSimulationHandler(
	create *usecase.CreateSimulationUseCase,
	get *usecase.GetSimulationUseCase,
	list *usecase.ListSimulationsUseCase,
	volume *usecase.GetDailyVolumeUseCase,
	products *usecase.ListProductsUseCase,
	eligible *usecase.ListEligibleProductsUseCase,
	logger *slog.Logger,
) *SimulationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationHandler{
		create:   create,
		get:      get,
		list:     list,
		volume:   volume,
		products: products,
		eligible: eligible,
		logger:   logger,
	}
}

// CreateSimulation runs one simulation and returns it with both schedules.
func (h *SimulationHandler) CreateSimulation(ctx context.Context, req *CreateSimulationRequest) (*CreateSimulationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	value, err := parseValue(req.Value)
	if err != nil {
		return nil, err
	}

	resp, err := h.create.Execute(ctx, dto.CreateSimulationRequest{Value: value, Term: int(req.Term)})
	if err != nil {
		return nil, h.toStatus(ctx, "CreateSimulation", err)
	}

	h.logger.InfoContext(ctx, "simulation created",
		"simulation_id", resp.ID,
		"product_code", resp.ProductCode,
	)
	return &CreateSimulationResponse{Simulation: resp}, nil
}

// GetSimulation returns a stored simulation or NotFound.
func (h *SimulationHandler) GetSimulation(ctx context.Context, req *GetSimulationRequest) (*GetSimulationResponse, error) {
	if req == nil || req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be a positive integer")
	}

	resp, found, err := h.get.Execute(ctx, dto.GetSimulationRequest{ID: req.ID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetSimulation", err)
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "simulation %d not found", req.ID)
	}
	return &GetSimulationResponse{Simulation: resp}, nil
}

// ListSimulations returns one page of summaries, newest first.
func (h *SimulationHandler) ListSimulations(ctx context.Context, req *ListSimulationsRequest) (*ListSimulationsResponse, error) {
	page, pageSize := 1, defaultPageSize
	if req != nil {
		if req.Page != 0 {
			page = int(req.Page)
		}
		if req.PageSize != 0 {
			pageSize = int(req.PageSize)
		}
	}

	resp, err := h.list.Execute(ctx, dto.ListSimulationsRequest{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, h.toStatus(ctx, "ListSimulations", err)
	}
	return &ListSimulationsResponse{ListSimulationsResponse: resp}, nil
}

// GetDailyVolume aggregates one day of simulations per product.
func (h *SimulationHandler) GetDailyVolume(ctx context.Context, req *GetDailyVolumeRequest) (*GetDailyVolumeResponse, error) {
	if req == nil || req.ReferenceDate == "" {
		return nil, status.Error(codes.InvalidArgument, "reference_date is required")
	}
	date, err := time.Parse(time.DateOnly, req.ReferenceDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "reference_date must be YYYY-MM-DD: %v", err)
	}

	resp, err := h.volume.Execute(ctx, dto.DailyVolumeRequest{ReferenceDate: date})
	if err != nil {
		return nil, h.toStatus(ctx, "GetDailyVolume", err)
	}
	return &GetDailyVolumeResponse{DailyVolumeResponse: resp}, nil
}

// ListProducts returns the full catalog.
func (h *SimulationHandler) ListProducts(ctx context.Context, _ *ListProductsRequest) (*ListProductsResponse, error) {
	products, err := h.products.Execute(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "ListProducts", err)
	}
	return &ListProductsResponse{Products: products}, nil
}

// ListEligibleProducts returns the products accepting value and term.
func (h *SimulationHandler) ListEligibleProducts(ctx context.Context, req *ListEligibleProductsRequest) (*ListEligibleProductsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	value, err := parseValue(req.Value)
	if err != nil {
		return nil, err
	}

	products, err := h.eligible.Execute(ctx, dto.EligibleProductsRequest{Value: value, Term: int(req.Term)})
	if err != nil {
		return nil, h.toStatus(ctx, "ListEligibleProducts", err)
	}
	return &ListEligibleProductsResponse{Products: products}, nil
}

func parseValue(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, status.Error(codes.InvalidArgument, "value is required")
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid value: %v", err)
	}
	return v, nil
}

// toStatus maps use-case errors to gRPC codes. Storage details are logged
// and never returned.
func (h *SimulationHandler) toStatus(ctx context.Context, method string, err error) error {
	var verr *valueobject.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, service.ErrNoEligibleProduct):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, usecase.ErrUnavailable):
		h.logger.WarnContext(ctx, "rpc failed", "method", method, "error", err)
		return status.Error(codes.Unavailable, "service temporarily unavailable")
	default:
		h.logger.ErrorContext(ctx, "rpc failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
