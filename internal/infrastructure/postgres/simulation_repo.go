package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
	pgpkg "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/postgres"
)

// SimulationRepo implements port.SimulationRepository.
type SimulationRepo struct {
	db  DB
	loc *time.Location
}

// NewSimulationRepo creates a PostgreSQL-backed simulation repository.
// Timestamps read back are expressed in loc; nil means UTC.
func NewSimulationRepo(db DB, loc *time.Location) *SimulationRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &SimulationRepo{db: db, loc: loc}
}

const insertSimulationSQL = `
	INSERT INTO simulations (
		created_at, value, term, product_code, product_name, annual_rate, total_installments
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

const insertInstallmentSQL = `
	INSERT INTO installments (simulation_id, amortization_type, number, amortization, interest, payment)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// Create writes the simulation row and every installment in one transaction.
func (r *SimulationRepo) Create(ctx context.Context, sim model.Simulation) (int64, error) {
	var id int64
	err := pgpkg.InTx(ctx, r.db, pgpkg.WriteTx, func(tx pgx.Tx) error {
		product := sim.Product()
		if err := tx.QueryRow(ctx, insertSimulationSQL,
			sim.CreatedAt(), sim.Value(), sim.Term(),
			product.Code, product.Name, product.AnnualRate, sim.TotalInstallments(),
		).Scan(&id); err != nil {
			return fmt.Errorf("insert simulation: %w", err)
		}

		batch := &pgx.Batch{}
		for _, schedule := range sim.Schedules() {
			for _, in := range schedule.Installments {
				batch.Queue(insertInstallmentSQL,
					id, schedule.Type.String(), in.Number, in.Amortization, in.Interest, in.Payment)
			}
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert installments: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID reads a simulation and regroups its installments per scheme.
func (r *SimulationRepo) FindByID(ctx context.Context, id int64) (model.Simulation, error) {
	query := `
		SELECT id, created_at, value, term, product_code, product_name, annual_rate, total_installments
		FROM simulations
		WHERE id = $1
	`
	var (
		simID     int64
		createdAt time.Time
		value     decimal.Decimal
		term      int
		product   model.ProductSnapshot
		total     decimal.Decimal
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&simID, &createdAt, &value, &term, &product.Code, &product.Name, &product.AnnualRate, &total,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Simulation{}, port.ErrNotFound
	}
	if err != nil {
		return model.Simulation{}, fmt.Errorf("find simulation %d: %w", id, err)
	}

	schedules, err := r.loadSchedules(ctx, simID)
	if err != nil {
		return model.Simulation{}, err
	}

	return model.ReconstructSimulation(simID, createdAt.In(r.loc), value, term, product, total, schedules), nil
}

func (r *SimulationRepo) loadSchedules(ctx context.Context, simulationID int64) ([]model.AmortizationResult, error) {
	query := `
		SELECT amortization_type, number, amortization, interest, payment
		FROM installments
		WHERE simulation_id = $1
		ORDER BY amortization_type, number
	`
	rows, err := r.db.Query(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	byType := make(map[valueobject.AmortizationType][]model.Installment)
	for rows.Next() {
		var (
			tag string
			in  model.Installment
		)
		if err := rows.Scan(&tag, &in.Number, &in.Amortization, &in.Interest, &in.Payment); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		amortType, err := valueobject.NewAmortizationType(tag)
		if err != nil {
			return nil, fmt.Errorf("installment of simulation %d: %w", simulationID, err)
		}
		byType[amortType] = append(byType[amortType], in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate installments: %w", err)
	}

	schedules := make([]model.AmortizationResult, 0, len(byType))
	for _, t := range valueobject.AmortizationTypes() {
		if installments, ok := byType[t]; ok {
			schedules = append(schedules, model.AmortizationResult{Type: t, Installments: installments})
		}
	}
	return schedules, nil
}

// List returns one page ordered by creation time then id, both descending,
// and the total number of simulations.
func (r *SimulationRepo) List(ctx context.Context, offset, limit int) ([]model.SimulationSummary, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM simulations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count simulations: %w", err)
	}

	query := `
		SELECT id, value, term, total_installments
		FROM simulations
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list simulations: %w", err)
	}
	defer rows.Close()

	var out []model.SimulationSummary
	for rows.Next() {
		var s model.SimulationSummary
		if err := rows.Scan(&s.ID, &s.Value, &s.Term, &s.TotalInstallments); err != nil {
			return nil, 0, fmt.Errorf("scan simulation summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate simulations: %w", err)
	}
	return out, total, nil
}

// AggregateByProduct groups simulations created in [from, to) by product
// code and snapshot name.
func (r *SimulationRepo) AggregateByProduct(ctx context.Context, from, to time.Time) ([]model.ProductVolume, error) {
	query := `
		SELECT product_code,
		       product_name,
		       AVG(annual_rate),
		       AVG(total_installments / term),
		       SUM(value),
		       SUM(total_installments)
		FROM simulations
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY product_code, product_name
		ORDER BY product_code, product_name
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate simulations: %w", err)
	}
	defer rows.Close()

	var out []model.ProductVolume
	for rows.Next() {
		var v model.ProductVolume
		if err := rows.Scan(
			&v.ProductCode, &v.ProductName, &v.AverageRate,
			&v.AverageInstallment, &v.TotalValue, &v.TotalInstallments,
		); err != nil {
			return nil, fmt.Errorf("scan product volume: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product volume: %w", err)
	}
	return out, nil
}
