package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Publisher hands gateway audit events to a Store. In async mode events go
// through a bounded queue drained by one goroutine, and a full queue drops
// the event rather than delaying the patron request.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	queue   chan Event
	done    sync.WaitGroup
	closing sync.Once
	dropped atomic.Uint64
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events ahead of the store.
// Zero or negative keeps publishing synchronous.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

// WithPublisherLogger reports store failures and dropped events.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.done.Done()
	for event := range p.queue {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.warn("audit store append failed", event, "error", err)
		}
	}
}

// Close flushes queued events. Safe to call more than once.
func (p *Publisher) Close() {
	if p.queue == nil {
		return
	}
	p.closing.Do(func() {
		close(p.queue)
		p.done.Wait()
	})
}

// Emit records one event, stamping the time when the caller left it unset.
// Async emits never fail; a dropped event is counted and logged.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
	default:
		p.dropped.Add(1)
		p.warn("audit queue full, event dropped", event)
	}
	return nil
}

// Dropped reports how many async events were discarded on a full queue.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// List returns the events the store still holds for a patron, oldest first.
func (p *Publisher) List(ctx context.Context, patronID string) ([]Event, error) {
	return p.store.ListByPatron(ctx, patronID)
}

func (p *Publisher) warn(msg string, event Event, extra ...any) {
	if p.logger == nil {
		return
	}
	args := append([]any{"action", event.Action, "patron_id", event.PatronID}, extra...)
	p.logger.Warn(msg, args...)
}
