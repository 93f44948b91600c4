package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulationSummary is one row of the paginated simulation listing.
type SimulationSummary struct {
	ID                int64
	Value             decimal.Decimal
	Term              int
	TotalInstallments decimal.Decimal
}

// ProductVolume aggregates one day of simulations for a single product.
type ProductVolume struct {
	ProductCode        int
	ProductName        string
	AverageRate        decimal.Decimal
	AverageInstallment decimal.Decimal
	TotalValue         decimal.Decimal
	TotalInstallments  decimal.Decimal
}

// RequestTelemetry is one recorded API call.
type RequestTelemetry struct {
	Endpoint   string
	DurationMs int64
	StatusCode int
	Success    bool
	ClientIP   string
	OccurredAt time.Time
}

// EndpointTelemetry aggregates one day of calls to a single endpoint.
type EndpointTelemetry struct {
	Endpoint   string
	Requests   int64
	AverageMs  decimal.Decimal
	MinMs      int64
	MaxMs      int64
	SuccessPct decimal.Decimal
}
