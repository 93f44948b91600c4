package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	pgpkg "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/postgres"
)

// ProductRepo implements port.ProductCatalog.
type ProductRepo struct {
	db     pgpkg.Querier
	logger *slog.Logger
}

// NewProductRepo creates a PostgreSQL-backed product catalog.
func NewProductRepo(db pgpkg.Querier, logger *slog.Logger) *ProductRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductRepo{db: db, logger: logger}
}

// ListAll returns every usable product ordered by code. Rows that break the
// product invariants are skipped with a warning.
func (r *ProductRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT code, name, annual_rate, min_term, max_term, min_value, max_value
		FROM products
		ORDER BY code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var (
			p        model.Product
			maxValue decimal.NullDecimal
		)
		if err := rows.Scan(&p.Code, &p.Name, &p.AnnualRate, &p.MinTerm, &p.MaxTerm, &p.MinValue, &maxValue); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if maxValue.Valid {
			p.MaxValue = &maxValue.Decimal
		}
		if err := p.Validate(); err != nil {
			r.logger.WarnContext(ctx, "skipping invalid product", "code", p.Code, "error", err)
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}
