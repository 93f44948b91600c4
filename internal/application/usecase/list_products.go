package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
)

// ListProductsUseCase returns the full product catalog.
type ListProductsUseCase struct {
	catalog port.ProductCatalog
	timeout time.Duration
}

// NewListProductsUseCase wires dependencies.
func NewListProductsUseCase(catalog port.ProductCatalog, timeout time.Duration) *ListProductsUseCase {
	return &ListProductsUseCase{catalog: catalog, timeout: timeout}
}

// Execute lists every product in catalog order.
func (uc *ListProductsUseCase) Execute(ctx context.Context) ([]dto.ProductResponse, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	products, err := uc.catalog.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", ErrUnavailable, err)
	}
	return toProductResponses(products), nil
}

// ListEligibleProductsUseCase returns every product that accepts a value and term.
type ListEligibleProductsUseCase struct {
	catalog  port.ProductCatalog
	policy   service.RequestPolicy
	selector *service.ProductSelector
	timeout  time.Duration
}

// NewListEligibleProductsUseCase wires dependencies.
func NewListEligibleProductsUseCase(
	catalog port.ProductCatalog,
	policy service.RequestPolicy,
	timeout time.Duration,
) *ListEligibleProductsUseCase {
	return &ListEligibleProductsUseCase{
		catalog:  catalog,
		policy:   policy,
		selector: service.NewProductSelector(),
		timeout:  timeout,
	}
}

// Execute checks the request against the ceilings, then filters the catalog.
// An empty result is not an error.
func (uc *ListEligibleProductsUseCase) Execute(
	ctx context.Context,
	req dto.EligibleProductsRequest,
) ([]dto.ProductResponse, error) {
	if err := uc.policy.ValidateBounds(req.Value, req.Term); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	products, err := uc.catalog.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", ErrUnavailable, err)
	}
	return toProductResponses(uc.selector.Eligible(products, req.Value, req.Term)), nil
}
