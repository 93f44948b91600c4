// Package messaging dispatches domain events off the request path.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/event"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
)

var (
	// ErrQueueFull is returned when the buffer has no room; the event is dropped.
	ErrQueueFull = errors.New("event queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("event publisher closed")
)

// AsyncPublisher implements port.EventPublisher with a bounded queue drained
// by a single worker. Publish never blocks on the downstream publisher.
type AsyncPublisher struct {
	next    port.EventPublisher
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan event.DomainEvent
	done   chan struct{}

	published atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewAsyncPublisher starts the worker. Each event gets timeout to reach next.
func NewAsyncPublisher(next port.EventPublisher, buffer int, timeout time.Duration, logger *slog.Logger) *AsyncPublisher {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan event.DomainEvent, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues events. Events that do not fit are dropped and reported
// through the returned error.
func (p *AsyncPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	var errs []error
	for _, evt := range events {
		select {
		case p.queue <- evt:
		default:
			p.dropped.Add(1)
			errs = append(errs, fmt.Errorf("%w: dropped %s %s", ErrQueueFull, evt.EventType(), evt.EventID()))
		}
	}
	return errors.Join(errs...)
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for evt := range p.queue {
		err := p.deliver(evt)

		if err != nil {
			p.failed.Add(1)
			p.logger.Warn("publish event failed",
				"event_type", evt.EventType(),
				"event_id", evt.EventID(),
				"aggregate_id", evt.AggregateID(),
				"error", err,
			)
			continue
		}
		p.published.Add(1)
	}
}

func (p *AsyncPublisher) deliver(evt event.DomainEvent) error {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.next.Publish(ctx, evt)
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain event queue: %w", ctx.Err())
	}
}

// Stats reports delivery counters since start.
func (p *AsyncPublisher) Stats() (published, failed, dropped int64) {
	return p.published.Load(), p.failed.Load(), p.dropped.Load()
}
