package service

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
)

// ErrNoEligibleProduct is returned when no catalog product accepts the request.
var ErrNoEligibleProduct = errors.New("no product available for the given value and term")

// ---------------------------------------------------------------------------
// ProductSelector – picks the cheapest eligible product
// ---------------------------------------------------------------------------

// ProductSelector filters a catalog snapshot by eligibility.
type ProductSelector struct{}

// NewProductSelector returns a new selector instance.
func NewProductSelector() *ProductSelector {
	return &ProductSelector{}
}

// Eligible returns the products accepting value and term, in catalog order.
func (s *ProductSelector) Eligible(catalog []model.Product, value decimal.Decimal, term int) []model.Product {
	eligible := make([]model.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.IsEligible(value, term) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Select returns the eligible product with the lowest annual rate. On equal
// rates the product seen first in the catalog wins.
func (s *ProductSelector) Select(catalog []model.Product, value decimal.Decimal, term int) (model.Product, error) {
	var (
		best  model.Product
		found bool
	)
	for _, p := range catalog {
		if !p.IsEligible(value, term) {
			continue
		}
		if !found || p.AnnualRate.LessThan(best.AnnualRate) {
			best = p
			found = true
		}
	}
	if !found {
		return model.Product{}, ErrNoEligibleProduct
	}
	return best, nil
}
