package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateSimulationRequest carries the desired amount and term in months.
type CreateSimulationRequest struct {
	Value decimal.Decimal `json:"value"`
	Term  int             `json:"term"`
}

// GetSimulationRequest identifies a simulation to retrieve.
type GetSimulationRequest struct {
	ID int64 `json:"id"`
}

// ListSimulationsRequest selects one 1-based page of simulations.
type ListSimulationsRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// DailyVolumeRequest selects the calendar day to aggregate. Only the date
// part of ReferenceDate is used.
type DailyVolumeRequest struct {
	ReferenceDate time.Time `json:"reference_date"`
}

// EligibleProductsRequest filters the catalog by value and term.
type EligibleProductsRequest struct {
	Value decimal.Decimal `json:"value"`
	Term  int             `json:"term"`
}

// DailyTelemetryRequest selects the calendar day to aggregate.
type DailyTelemetryRequest struct {
	ReferenceDate time.Time `json:"reference_date"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InstallmentResponse is a single period of a schedule.
type InstallmentResponse struct {
	Number       int             `json:"number"`
	Amortization decimal.Decimal `json:"amortization"`
	Interest     decimal.Decimal `json:"interest"`
	Payment      decimal.Decimal `json:"payment"`
}

// ScheduleResponse is one amortization scheme's schedule.
type ScheduleResponse struct {
	Type         string                `json:"type"`
	Installments []InstallmentResponse `json:"installments"`
}

// SimulationResponse is the external representation of a simulation.
type SimulationResponse struct {
	ID                int64              `json:"id"`
	CreatedAt         time.Time          `json:"created_at"`
	Value             decimal.Decimal    `json:"value"`
	Term              int                `json:"term"`
	ProductCode       int                `json:"product_code"`
	ProductName       string             `json:"product_name"`
	AnnualRate        decimal.Decimal    `json:"annual_rate"`
	TotalInstallments decimal.Decimal    `json:"total_installments"`
	Schedules         []ScheduleResponse `json:"schedules"`
}

// SimulationSummaryResponse is one row of a simulation listing.
type SimulationSummaryResponse struct {
	ID                int64           `json:"id"`
	Value             decimal.Decimal `json:"value"`
	Term              int             `json:"term"`
	TotalInstallments decimal.Decimal `json:"total_installments"`
}

// ListSimulationsResponse is one page of simulations.
type ListSimulationsResponse struct {
	Page         int                         `json:"page"`
	TotalRecords int                         `json:"total_records"`
	PageRecords  int                         `json:"page_records"`
	Records      []SimulationSummaryResponse `json:"records"`
}

// ProductVolumeResponse aggregates one product's simulations for a day.
type ProductVolumeResponse struct {
	ProductCode        int             `json:"product_code"`
	ProductName        string          `json:"product_name"`
	AverageRate        decimal.Decimal `json:"average_rate"`
	AverageInstallment decimal.Decimal `json:"average_installment"`
	TotalValue         decimal.Decimal `json:"total_value"`
	TotalInstallments  decimal.Decimal `json:"total_installments"`
}

// DailyVolumeResponse lists per-product volume for one day.
type DailyVolumeResponse struct {
	ReferenceDate string                  `json:"reference_date"`
	Products      []ProductVolumeResponse `json:"products"`
}

// ProductResponse is the external representation of a catalog product.
type ProductResponse struct {
	Code       int              `json:"code"`
	Name       string           `json:"name"`
	AnnualRate decimal.Decimal  `json:"annual_rate"`
	MinTerm    int              `json:"min_term"`
	MaxTerm    *int             `json:"max_term,omitempty"`
	MinValue   decimal.Decimal  `json:"min_value"`
	MaxValue   *decimal.Decimal `json:"max_value,omitempty"`
}

// EndpointTelemetryResponse aggregates one endpoint's calls for a day.
type EndpointTelemetryResponse struct {
	Endpoint   string          `json:"endpoint"`
	Requests   int64           `json:"requests"`
	AverageMs  decimal.Decimal `json:"average_ms"`
	MinMs      int64           `json:"min_ms"`
	MaxMs      int64           `json:"max_ms"`
	SuccessPct decimal.Decimal `json:"success_pct"`
}

// DailyTelemetryResponse lists per-endpoint telemetry for one day.
type DailyTelemetryResponse struct {
	ReferenceDate string                      `json:"reference_date"`
	Endpoints     []EndpointTelemetryResponse `json:"endpoints"`
}
