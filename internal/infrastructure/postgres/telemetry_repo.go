package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	pgpkg "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/postgres"
)

// TelemetryRepo implements port.TelemetryRepository.
type TelemetryRepo struct {
	db pgpkg.Querier
}

// NewTelemetryRepo creates a PostgreSQL-backed telemetry sink.
func NewTelemetryRepo(db pgpkg.Querier) *TelemetryRepo {
	return &TelemetryRepo{db: db}
}

// Record appends one request.
func (r *TelemetryRepo) Record(ctx context.Context, entry model.RequestTelemetry) error {
	query := `
		INSERT INTO request_telemetry (endpoint, duration_ms, status_code, success, client_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		entry.Endpoint, entry.DurationMs, entry.StatusCode, entry.Success, entry.ClientIP, entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert telemetry: %w", err)
	}
	return nil
}

// AggregateByEndpoint groups requests made in [from, to) by endpoint.
func (r *TelemetryRepo) AggregateByEndpoint(ctx context.Context, from, to time.Time) ([]model.EndpointTelemetry, error) {
	query := `
		SELECT endpoint,
		       COUNT(*),
		       AVG(duration_ms),
		       MIN(duration_ms),
		       MAX(duration_ms),
		       100.0 * COUNT(*) FILTER (WHERE success) / COUNT(*)
		FROM request_telemetry
		WHERE occurred_at >= $1 AND occurred_at < $2
		GROUP BY endpoint
		ORDER BY endpoint
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate telemetry: %w", err)
	}
	defer rows.Close()

	var out []model.EndpointTelemetry
	for rows.Next() {
		var e model.EndpointTelemetry
		if err := rows.Scan(&e.Endpoint, &e.Requests, &e.AverageMs, &e.MinMs, &e.MaxMs, &e.SuccessPct); err != nil {
			return nil, fmt.Errorf("scan endpoint telemetry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate telemetry: %w", err)
	}
	return out, nil
}
