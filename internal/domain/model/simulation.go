package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// Simulation is the immutable record of one accepted simulation request.
// It holds exactly one schedule per amortization scheme. ID is zero until
// the simulation has been persisted.
type Simulation struct {
	id                int64
	createdAt         time.Time
	value             decimal.Decimal
	term              int
	product           ProductSnapshot
	totalInstallments decimal.Decimal
	schedules         []AmortizationResult
	domainEvents      []event.DomainEvent
}

// NewSimulation assembles a not-yet-persisted simulation. The installment
// total is the sum of the SAC payments.
func NewSimulation(
	value decimal.Decimal,
	term int,
	product Product,
	schedules []AmortizationResult,
	now time.Time,
) (Simulation, error) {
	if !value.IsPositive() {
		return Simulation{}, fmt.Errorf("%w: value must be positive", ErrInvalidArgument)
	}
	if term <= 0 {
		return Simulation{}, fmt.Errorf("%w: term must be positive", ErrInvalidArgument)
	}
	if err := checkSchedules(schedules, term); err != nil {
		return Simulation{}, err
	}

	sim := Simulation{
		createdAt: now,
		value:     value,
		term:      term,
		product:   product.Snapshot(),
		schedules: schedules,
	}
	sac, _ := sim.Schedule(valueobject.AmortizationSAC)
	sim.totalInstallments = sac.TotalPayment()
	return sim, nil
}

// ReconstructSimulation rebuilds a persisted simulation without re-running
// any invariant that depends on the calculator.
func ReconstructSimulation(
	id int64,
	createdAt time.Time,
	value decimal.Decimal,
	term int,
	product ProductSnapshot,
	totalInstallments decimal.Decimal,
	schedules []AmortizationResult,
) Simulation {
	return Simulation{
		id:                id,
		createdAt:         createdAt,
		value:             value,
		term:              term,
		product:           product,
		totalInstallments: totalInstallments,
		schedules:         schedules,
	}
}

// Persisted returns a copy carrying the store-assigned id and a
// SimulationCreated event.
func (s Simulation) Persisted(id int64) Simulation {
	next := s
	next.id = id
	next.domainEvents = append(append([]event.DomainEvent(nil), s.domainEvents...),
		event.NewSimulationCreated(id, s.value, s.term, s.product.Code, s.createdAt))
	return next
}

func checkSchedules(schedules []AmortizationResult, term int) error {
	seen := make(map[valueobject.AmortizationType]bool, len(schedules))
	for _, sch := range schedules {
		if seen[sch.Type] {
			return fmt.Errorf("%w: duplicate %s schedule", ErrInvalidArgument, sch.Type)
		}
		seen[sch.Type] = true
		if len(sch.Installments) != term {
			return fmt.Errorf("%w: %s schedule has %d installments, want %d",
				ErrInvalidArgument, sch.Type, len(sch.Installments), term)
		}
		for i, in := range sch.Installments {
			if in.Number != i+1 {
				return fmt.Errorf("%w: %s installment %d out of sequence", ErrInvalidArgument, sch.Type, in.Number)
			}
		}
	}
	for _, t := range valueobject.AmortizationTypes() {
		if !seen[t] {
			return fmt.Errorf("%w: missing %s schedule", ErrInvalidArgument, t)
		}
	}
	return nil
}

func (s Simulation) ID() int64                          { return s.id }
func (s Simulation) CreatedAt() time.Time               { return s.createdAt }
func (s Simulation) Value() decimal.Decimal             { return s.value }
func (s Simulation) Term() int                          { return s.term }
func (s Simulation) Product() ProductSnapshot           { return s.product }
func (s Simulation) TotalInstallments() decimal.Decimal { return s.totalInstallments }
func (s Simulation) DomainEvents() []event.DomainEvent  { return s.domainEvents }

// Schedules returns the schedules in SAC, PRICE order.
func (s Simulation) Schedules() []AmortizationResult {
	out := make([]AmortizationResult, 0, len(s.schedules))
	for _, t := range valueobject.AmortizationTypes() {
		if sch, ok := s.Schedule(t); ok {
			out = append(out, sch)
		}
	}
	return out
}

// Schedule returns the schedule tagged t.
func (s Simulation) Schedule(t valueobject.AmortizationType) (AmortizationResult, bool) {
	for _, sch := range s.schedules {
		if sch.Type.Equal(t) {
			return sch, true
		}
	}
	return AmortizationResult{}, false
}
