package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
)

// RecordTelemetryUseCase appends one API call to the telemetry sink.
type RecordTelemetryUseCase struct {
	repo    port.TelemetryRepository
	logger  *slog.Logger
	timeout time.Duration
}

// NewRecordTelemetryUseCase wires dependencies. A nil logger means slog.Default.
func NewRecordTelemetryUseCase(repo port.TelemetryRepository, logger *slog.Logger, timeout time.Duration) *RecordTelemetryUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordTelemetryUseCase{repo: repo, logger: logger, timeout: timeout}
}

// Execute stores entry. Failures are logged and never returned, so telemetry
// cannot fail the call being measured.
func (uc *RecordTelemetryUseCase) Execute(ctx context.Context, entry model.RequestTelemetry) {
	ctx, cancel := withTimeout(context.WithoutCancel(ctx), uc.timeout)
	defer cancel()

	if err := uc.repo.Record(ctx, entry); err != nil {
		uc.logger.WarnContext(ctx, "record telemetry failed",
			"endpoint", entry.Endpoint, "error", err)
	}
}

// GetDailyTelemetryUseCase aggregates one calendar day of API calls per endpoint.
type GetDailyTelemetryUseCase struct {
	repo     port.TelemetryRepository
	location *time.Location
	timeout  time.Duration
}

// NewGetDailyTelemetryUseCase wires dependencies. A nil location means UTC.
func NewGetDailyTelemetryUseCase(
	repo port.TelemetryRepository,
	location *time.Location,
	timeout time.Duration,
) *GetDailyTelemetryUseCase {
	if location == nil {
		location = time.UTC
	}
	return &GetDailyTelemetryUseCase{repo: repo, location: location, timeout: timeout}
}

// Execute returns one row per endpoint called that day.
func (uc *GetDailyTelemetryUseCase) Execute(
	ctx context.Context,
	req dto.DailyTelemetryRequest,
) (dto.DailyTelemetryResponse, error) {
	ctx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	from, to := dayWindow(req.ReferenceDate, uc.location)
	rows, err := uc.repo.AggregateByEndpoint(ctx, from, to)
	if err != nil {
		return dto.DailyTelemetryResponse{}, storeError("aggregate telemetry", err)
	}

	endpoints := make([]dto.EndpointTelemetryResponse, len(rows))
	for i, r := range rows {
		endpoints[i] = toEndpointTelemetryResponse(r)
	}
	return dto.DailyTelemetryResponse{
		ReferenceDate: from.Format(time.DateOnly),
		Endpoints:     endpoints,
	}, nil
}
