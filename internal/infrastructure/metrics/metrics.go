// Package metrics records service metrics through OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// MeterName scopes every instrument created here.
const MeterName = "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito"

// Recorder implements port.SimulationMetrics and the HTTP middleware hook.
type Recorder struct {
	meter metric.Meter

	simulations  metric.Int64Counter
	simDuration  metric.Float64Histogram
	httpRequests metric.Int64Counter
	httpDuration metric.Float64Histogram
}

// New creates the instruments on meter.
func New(meter metric.Meter) (*Recorder, error) {
	r := &Recorder{meter: meter}
	var err error

	if r.simulations, err = meter.Int64Counter("simulations_created",
		metric.WithDescription("Simulation requests by outcome."),
	); err != nil {
		return nil, fmt.Errorf("create simulations counter: %w", err)
	}
	if r.simDuration, err = meter.Float64Histogram("simulation_duration",
		metric.WithDescription("Time to complete a simulation request."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create simulation histogram: %w", err)
	}
	if r.httpRequests, err = meter.Int64Counter("http_requests",
		metric.WithDescription("HTTP requests by route and status."),
	); err != nil {
		return nil, fmt.Errorf("create http counter: %w", err)
	}
	if r.httpDuration, err = meter.Float64Histogram("http_request_duration",
		metric.WithDescription("HTTP request latency."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create http histogram: %w", err)
	}

	return r, nil
}

// SimulationFinished records one create-simulation request.
func (r *Recorder) SimulationFinished(ctx context.Context, outcome valueobject.SimulationOutcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome.String()))
	r.simulations.Add(ctx, 1, attrs)
	r.simDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// HTTPRequest records one served HTTP request.
func (r *Recorder) HTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	r.httpRequests.Add(ctx, 1, attrs)
	r.httpDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// NotifierStats reports event delivery counters.
type NotifierStats func() (published, failed, dropped int64)

// ObserveNotifier exports stats as the simulation_events counter.
func (r *Recorder) ObserveNotifier(stats NotifierStats) error {
	events, err := r.meter.Int64ObservableCounter("simulation_events",
		metric.WithDescription("Domain events handed to the notifier, by result."),
	)
	if err != nil {
		return fmt.Errorf("create events counter: %w", err)
	}

	_, err = r.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		published, failed, dropped := stats()
		o.ObserveInt64(events, published, metric.WithAttributes(attribute.String("result", "published")))
		o.ObserveInt64(events, failed, metric.WithAttributes(attribute.String("result", "failed")))
		o.ObserveInt64(events, dropped, metric.WithAttributes(attribute.String("result", "dropped")))
		return nil
	}, events)
	if err != nil {
		return fmt.Errorf("register events callback: %w", err)
	}
	return nil
}
