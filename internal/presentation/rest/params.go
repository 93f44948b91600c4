package rest

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// queryParams collects parse failures so one response can report them all.
type queryParams struct {
	c          *gin.Context
	violations []valueobject.Violation
}

func newQueryParams(c *gin.Context) *queryParams {
	return &queryParams{c: c}
}

func (q *queryParams) fail(field, message string) {
	q.violations = append(q.violations, valueobject.Violation{Field: field, Message: message})
}

func (q *queryParams) Int(name string, def int) int {
	raw, ok := q.c.GetQuery(name)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, "must be an integer")
		return def
	}
	return v
}

func (q *queryParams) RequiredInt(name string) int {
	if q.c.Query(name) == "" {
		q.fail(name, "is required")
		return 0
	}
	return q.Int(name, 0)
}

func (q *queryParams) RequiredDecimal(name string) decimal.Decimal {
	raw := q.c.Query(name)
	if raw == "" {
		q.fail(name, "is required")
		return decimal.Zero
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		q.fail(name, "must be a decimal number")
		return decimal.Zero
	}
	return v
}

func (q *queryParams) RequiredDate(name string) time.Time {
	raw := q.c.Query(name)
	if raw == "" {
		q.fail(name, "is required")
		return time.Time{}
	}
	v, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		q.fail(name, "must be a date in YYYY-MM-DD format")
		return time.Time{}
	}
	return v
}

// Valid writes a 400 problem and returns false when any parameter failed.
func (q *queryParams) Valid() bool {
	if len(q.violations) == 0 {
		return true
	}
	writeViolations(q.c, "Invalid query parameters", q.violations)
	return false
}
