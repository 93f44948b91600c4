package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a read-only credit product from the catalog. A nil maximum
// means the bound is open.
type Product struct {
	Code       int
	Name       string
	AnnualRate decimal.Decimal
	MinTerm    int
	MaxTerm    *int
	MinValue   decimal.Decimal
	MaxValue   *decimal.Decimal
}

// Validate checks the catalog row is self-consistent.
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product %d: name is required", p.Code)
	}
	if p.AnnualRate.IsNegative() {
		return fmt.Errorf("product %d: annual rate must not be negative", p.Code)
	}
	if p.MinTerm < 0 {
		return fmt.Errorf("product %d: minimum term must not be negative", p.Code)
	}
	if p.MaxTerm != nil && *p.MaxTerm < p.MinTerm {
		return fmt.Errorf("product %d: maximum term below minimum term", p.Code)
	}
	if p.MaxValue != nil && p.MaxValue.LessThan(p.MinValue) {
		return fmt.Errorf("product %d: maximum value below minimum value", p.Code)
	}
	return nil
}

// IsEligible reports whether value and term fall inside the product's
// inclusive bounds.
func (p Product) IsEligible(value decimal.Decimal, term int) bool {
	if value.LessThan(p.MinValue) {
		return false
	}
	if p.MaxValue != nil && value.GreaterThan(*p.MaxValue) {
		return false
	}
	if term < p.MinTerm {
		return false
	}
	if p.MaxTerm != nil && term > *p.MaxTerm {
		return false
	}
	return true
}

// Snapshot copies the fields a simulation keeps about the chosen product.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{Code: p.Code, Name: p.Name, AnnualRate: p.AnnualRate}
}

// ProductSnapshot is the product data embedded by value in a simulation.
// Later catalog edits never change it.
type ProductSnapshot struct {
	Code       int
	Name       string
	AnnualRate decimal.Decimal
}
