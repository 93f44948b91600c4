package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// ErrInvalidArgument is returned when a schedule cannot be computed from its inputs.
var ErrInvalidArgument = errors.New("invalid argument")

// MoneyPlaces is the number of decimal places of every output amount.
const MoneyPlaces = 2

var (
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
)

// Installment is one period of a schedule. Payment == Amortization + Interest.
type Installment struct {
	Number       int
	Amortization decimal.Decimal
	Interest     decimal.Decimal
	Payment      decimal.Decimal
}

// AmortizationResult is an ordered schedule for one scheme.
type AmortizationResult struct {
	Type         valueobject.AmortizationType
	Installments []Installment
}

// TotalPayment sums the payments of every installment.
func (r AmortizationResult) TotalPayment() decimal.Decimal {
	total := decimal.Zero
	for _, in := range r.Installments {
		total = total.Add(in.Payment)
	}
	return total
}

// TotalAmortization sums the amortization of every installment.
func (r AmortizationResult) TotalAmortization() decimal.Decimal {
	total := decimal.Zero
	for _, in := range r.Installments {
		total = total.Add(in.Amortization)
	}
	return total
}

// CalculateSchedules computes the SAC and PRICE schedules, in that order.
func CalculateSchedules(principal, annualRate decimal.Decimal, periods int) ([]AmortizationResult, error) {
	sac, err := CalculateSAC(principal, annualRate, periods)
	if err != nil {
		return nil, err
	}
	price, err := CalculatePRICE(principal, annualRate, periods)
	if err != nil {
		return nil, err
	}
	return []AmortizationResult{sac, price}, nil
}

// CalculateSAC computes a constant-amortization schedule.
//
//	amortization = P / n
//	interest_i   = balance_i * r
//	payment_i    = amortization + interest_i
//
// The running balance is carried at full precision; amortization and
// interest are rounded half away from zero at output and the payment is
// their sum. The last installment amortizes whatever the rounded periods
// left over, so the amortization column sums exactly to P.
func CalculateSAC(principal, annualRate decimal.Decimal, periods int) (AmortizationResult, error) {
	if err := checkInputs(principal, annualRate, periods); err != nil {
		return AmortizationResult{}, err
	}

	rate := monthlyRate(annualRate)
	amortization := principal.Div(decimal.NewFromInt(int64(periods)))
	roundedAmortization := amortization.Round(MoneyPlaces)
	balance := principal

	installments := make([]Installment, 0, periods)
	for n := 1; n <= periods; n++ {
		interest := balance.Mul(rate).Round(MoneyPlaces)
		installments = append(installments, Installment{
			Number:       n,
			Amortization: roundedAmortization,
			Interest:     interest,
			Payment:      roundedAmortization.Add(interest),
		})
		balance = balance.Sub(amortization)
	}
	settleResidual(installments, principal)

	return AmortizationResult{Type: valueobject.AmortizationSAC, Installments: installments}, nil
}

// CalculatePRICE computes a constant-payment schedule.
//
//	payment        = P * r * (1+r)^n / ((1+r)^n - 1)   (P / n when r == 0)
//	interest_i     = balance_i * r
//	amortization_i = payment - interest_i
//
// Payment and interest are rounded half away from zero at output and the
// amortization is their difference, so the payment is identical across
// periods except the last, which also settles the rounding residual.
func CalculatePRICE(principal, annualRate decimal.Decimal, periods int) (AmortizationResult, error) {
	if err := checkInputs(principal, annualRate, periods); err != nil {
		return AmortizationResult{}, err
	}

	rate := monthlyRate(annualRate)
	n := decimal.NewFromInt(int64(periods))

	var payment decimal.Decimal
	if rate.IsZero() {
		payment = principal.Div(n)
	} else {
		factor := one.Add(rate).Pow(n)
		payment = principal.Mul(rate).Mul(factor).Div(factor.Sub(one))
	}
	roundedPayment := payment.Round(MoneyPlaces)
	balance := principal

	installments := make([]Installment, 0, periods)
	for i := 1; i <= periods; i++ {
		exactInterest := balance.Mul(rate)
		interest := exactInterest.Round(MoneyPlaces)
		installments = append(installments, Installment{
			Number:       i,
			Amortization: roundedPayment.Sub(interest),
			Interest:     interest,
			Payment:      roundedPayment,
		})
		balance = balance.Sub(payment.Sub(exactInterest))
	}
	settleResidual(installments, principal)

	return AmortizationResult{Type: valueobject.AmortizationPRICE, Installments: installments}, nil
}

// settleResidual makes the last installment amortize principal minus the
// rounded amortization of every earlier one, recomputing its payment.
func settleResidual(installments []Installment, principal decimal.Decimal) {
	principal = principal.Round(MoneyPlaces)
	last := len(installments) - 1
	paid := decimal.Zero
	for _, in := range installments[:last] {
		paid = paid.Add(in.Amortization)
	}
	in := &installments[last]
	in.Amortization = principal.Sub(paid)
	in.Payment = in.Amortization.Add(in.Interest)
}

func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(monthsPerYear)
}

func checkInputs(principal, annualRate decimal.Decimal, periods int) error {
	if !principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidArgument, principal)
	}
	if periods <= 0 {
		return fmt.Errorf("%w: periods must be positive, got %d", ErrInvalidArgument, periods)
	}
	if annualRate.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative, got %s", ErrInvalidArgument, annualRate)
	}
	return nil
}
