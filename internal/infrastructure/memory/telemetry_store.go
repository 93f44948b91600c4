package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
)

// TelemetryStore implements port.TelemetryRepository in memory.
type TelemetryStore struct {
	mu      sync.Mutex
	entries []model.RequestTelemetry
}

// NewTelemetryStore returns an empty store.
func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{}
}

// Record appends entry.
func (s *TelemetryStore) Record(_ context.Context, entry model.RequestTelemetry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

type endpointAcc struct {
	count     int64
	successes int64
	sum       int64
	min, max  int64
}

// AggregateByEndpoint groups entries recorded in [from, to) by endpoint name.
func (s *TelemetryStore) AggregateByEndpoint(_ context.Context, from, to time.Time) ([]model.EndpointTelemetry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := make(map[string]*endpointAcc)
	for _, e := range s.entries {
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		a, ok := acc[e.Endpoint]
		if !ok {
			a = &endpointAcc{min: e.DurationMs, max: e.DurationMs}
			acc[e.Endpoint] = a
		}
		a.count++
		a.sum += e.DurationMs
		a.min = min(a.min, e.DurationMs)
		a.max = max(a.max, e.DurationMs)
		if e.Success {
			a.successes++
		}
	}

	names := make([]string, 0, len(acc))
	for name := range acc {
		names = append(names, name)
	}
	slices.Sort(names)

	hundred := decimal.NewFromInt(100)
	out := make([]model.EndpointTelemetry, 0, len(names))
	for _, name := range names {
		a := acc[name]
		n := decimal.NewFromInt(a.count)
		out = append(out, model.EndpointTelemetry{
			Endpoint:   name,
			Requests:   a.count,
			AverageMs:  decimal.NewFromInt(a.sum).Div(n),
			MinMs:      a.min,
			MaxMs:      a.max,
			SuccessPct: decimal.NewFromInt(a.successes).Mul(hundred).Div(n),
		})
	}
	return out, nil
}
