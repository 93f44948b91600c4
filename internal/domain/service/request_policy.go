package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// Field names reported in violations.
const (
	FieldValue    = "value"
	FieldTerm     = "term"
	FieldPage     = "page"
	FieldPageSize = "page_size"
)

// RequestPolicy holds the limits every inbound request is checked against.
type RequestPolicy struct {
	MaxValue decimal.Decimal
	MaxTerm  int

	// Requests below SmallValueThreshold may not exceed SmallValueMaxTerm.
	SmallValueThreshold decimal.Decimal
	SmallValueMaxTerm   int
	// Requests at or above LargeValueThreshold need at least LargeValueMinTerm.
	LargeValueThreshold decimal.Decimal
	LargeValueMinTerm   int

	MaxPage     int
	MaxPageSize int
}

// DefaultRequestPolicy returns the production limits.
func DefaultRequestPolicy() RequestPolicy {
	return RequestPolicy{
		MaxValue:            decimal.NewFromInt(10_000_000),
		MaxTerm:             420,
		SmallValueThreshold: decimal.NewFromInt(1_000),
		SmallValueMaxTerm:   120,
		LargeValueThreshold: decimal.NewFromInt(1_000_000),
		LargeValueMinTerm:   12,
		MaxPage:             10_000,
		MaxPageSize:         100,
	}
}

// ValidateSimulation applies the ceilings and the value tiers. It returns a
// *valueobject.ValidationError listing every violation, or nil.
func (p RequestPolicy) ValidateSimulation(value decimal.Decimal, term int) error {
	violations := p.boundViolations(value, term)

	if value.IsPositive() && term > 0 {
		if value.LessThan(p.SmallValueThreshold) && term > p.SmallValueMaxTerm {
			violations = append(violations, valueobject.Violation{
				Field:   FieldTerm,
				Message: fmt.Sprintf("must be at most %d months for values below %s", p.SmallValueMaxTerm, p.SmallValueThreshold.StringFixed(2)),
			})
		}
		if value.GreaterThanOrEqual(p.LargeValueThreshold) && term < p.LargeValueMinTerm {
			violations = append(violations, valueobject.Violation{
				Field:   FieldTerm,
				Message: fmt.Sprintf("must be at least %d months for values from %s", p.LargeValueMinTerm, p.LargeValueThreshold.StringFixed(2)),
			})
		}
	}

	return asError(violations)
}

// ValidateBounds applies only the ceilings, as the eligible-products query does.
func (p RequestPolicy) ValidateBounds(value decimal.Decimal, term int) error {
	return asError(p.boundViolations(value, term))
}

// ValidatePage checks 1-based pagination parameters.
func (p RequestPolicy) ValidatePage(page, pageSize int) error {
	var violations []valueobject.Violation
	if page < 1 || page > p.MaxPage {
		violations = append(violations, valueobject.Violation{
			Field:   FieldPage,
			Message: fmt.Sprintf("must be between 1 and %d", p.MaxPage),
		})
	}
	if pageSize < 1 || pageSize > p.MaxPageSize {
		violations = append(violations, valueobject.Violation{
			Field:   FieldPageSize,
			Message: fmt.Sprintf("must be between 1 and %d", p.MaxPageSize),
		})
	}
	return asError(violations)
}

func (p RequestPolicy) boundViolations(value decimal.Decimal, term int) []valueobject.Violation {
	var violations []valueobject.Violation
	switch {
	case !value.IsPositive():
		violations = append(violations, valueobject.Violation{Field: FieldValue, Message: "must be greater than zero"})
	case value.GreaterThan(p.MaxValue):
		violations = append(violations, valueobject.Violation{
			Field:   FieldValue,
			Message: "must be at most " + p.MaxValue.StringFixed(2),
		})
	case !value.Equal(value.Round(2)):
		violations = append(violations, valueobject.Violation{Field: FieldValue, Message: "must have at most 2 decimal places"})
	}
	switch {
	case term <= 0:
		violations = append(violations, valueobject.Violation{Field: FieldTerm, Message: "must be greater than zero"})
	case term > p.MaxTerm:
		violations = append(violations, valueobject.Violation{
			Field:   FieldTerm,
			Message: fmt.Sprintf("must be at most %d months", p.MaxTerm),
		})
	}
	return violations
}

// asError keeps a nil *ValidationError from becoming a non-nil error.
func asError(violations []valueobject.Violation) error {
	if verr := valueobject.NewValidationError(violations); verr != nil {
		return verr
	}
	return nil
}
