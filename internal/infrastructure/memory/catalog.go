// Package memory provides in-process implementations of the storage ports,
// used by STORAGE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
)

// Catalog is a fixed product list.
type Catalog struct {
	products []model.Product
}

// NewCatalog returns a catalog serving products in the given order.
func NewCatalog(products ...model.Product) *Catalog {
	return &Catalog{products: slices.Clone(products)}
}

// ListAll returns a copy of the catalog.
func (c *Catalog) ListAll(context.Context) ([]model.Product, error) {
	return slices.Clone(c.products), nil
}

// SeedProducts returns the development catalog, matching the seed migration.
func SeedProducts() []model.Product {
	return []model.Product{
		{Code: 1, Name: "Produto 1", AnnualRate: decimal.RequireFromString("0.0179"), MinTerm: 0, MaxTerm: intPtr(24),
			MinValue: decimal.RequireFromString("200.00"), MaxValue: decPtr("10000.00")},
		{Code: 2, Name: "Produto 2", AnnualRate: decimal.RequireFromString("0.0175"), MinTerm: 25, MaxTerm: intPtr(48),
			MinValue: decimal.RequireFromString("10001.00"), MaxValue: decPtr("100000.00")},
		{Code: 3, Name: "Produto 3", AnnualRate: decimal.RequireFromString("0.0182"), MinTerm: 49, MaxTerm: intPtr(96),
			MinValue: decimal.RequireFromString("100000.01"), MaxValue: decPtr("1000000.00")},
		{Code: 4, Name: "Produto 4", AnnualRate: decimal.RequireFromString("0.0151"), MinTerm: 96,
			MinValue: decimal.RequireFromString("1000000.01")},
	}
}

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
