package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
)

// SimulationStore implements port.SimulationRepository in memory.
type SimulationStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []model.Simulation
}

// NewSimulationStore returns an empty store. Ids start at 1.
func NewSimulationStore() *SimulationStore {
	return &SimulationStore{nextID: 1}
}

// Create stores sim under the next id.
func (s *SimulationStore) Create(ctx context.Context, sim model.Simulation) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.rows = append(s.rows, model.ReconstructSimulation(
		id, sim.CreatedAt(), sim.Value(), sim.Term(), sim.Product(), sim.TotalInstallments(), sim.Schedules(),
	))
	return id, nil
}

// FindByID returns port.ErrNotFound for an unknown id.
func (s *SimulationStore) FindByID(_ context.Context, id int64) (model.Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sim := range s.rows {
		if sim.ID() == id {
			return sim, nil
		}
	}
	return model.Simulation{}, port.ErrNotFound
}

// List orders by creation time then id, both descending.
func (s *SimulationStore) List(_ context.Context, offset, limit int) ([]model.SimulationSummary, int, error) {
	s.mu.RLock()
	sorted := slices.Clone(s.rows)
	s.mu.RUnlock()

	slices.SortFunc(sorted, func(a, b model.Simulation) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID(), a.ID())
	})

	total := len(sorted)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)

	out := make([]model.SimulationSummary, 0, end-offset)
	for _, sim := range sorted[offset:end] {
		out = append(out, model.SimulationSummary{
			ID:                sim.ID(),
			Value:             sim.Value(),
			Term:              sim.Term(),
			TotalInstallments: sim.TotalInstallments(),
		})
	}
	return out, total, nil
}

type volumeAcc struct {
	count           int64
	rateSum         decimal.Decimal
	installmentSum  decimal.Decimal
	valueSum        decimal.Decimal
	installmentsSum decimal.Decimal
}

// AggregateByProduct groups simulations created in [from, to) by product
// code and name, so a product renamed between simulations gets one row per
// name.
func (s *SimulationStore) AggregateByProduct(_ context.Context, from, to time.Time) ([]model.ProductVolume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type productKey struct {
		code int
		name string
	}
	acc := make(map[productKey]*volumeAcc)
	for _, sim := range s.rows {
		at := sim.CreatedAt()
		if at.Before(from) || !at.Before(to) {
			continue
		}
		p := sim.Product()
		key := productKey{code: p.Code, name: p.Name}
		a, ok := acc[key]
		if !ok {
			a = &volumeAcc{}
			acc[key] = a
		}
		a.count++
		a.rateSum = a.rateSum.Add(p.AnnualRate)
		a.installmentSum = a.installmentSum.Add(sim.TotalInstallments().Div(decimal.NewFromInt(int64(sim.Term()))))
		a.valueSum = a.valueSum.Add(sim.Value())
		a.installmentsSum = a.installmentsSum.Add(sim.TotalInstallments())
	}

	keys := slices.Collect(maps.Keys(acc))
	slices.SortFunc(keys, func(a, b productKey) int {
		if c := cmp.Compare(a.code, b.code); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	out := make([]model.ProductVolume, 0, len(keys))
	for _, key := range keys {
		a := acc[key]
		n := decimal.NewFromInt(a.count)
		out = append(out, model.ProductVolume{
			ProductCode:        key.code,
			ProductName:        key.name,
			AverageRate:        a.rateSum.Div(n),
			AverageInstallment: a.installmentSum.Div(n),
			TotalValue:         a.valueSum,
			TotalInstallments:  a.installmentsSum,
		})
	}
	return out, nil
}
