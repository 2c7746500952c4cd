package audit

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity bounds an InMemoryStore built without WithCapacity.
const DefaultMemoryCapacity = 1024

// InMemoryStore keeps the most recent events in a fixed-size ring. Once
// full, each append overwrites the oldest event.
type InMemoryStore struct {
	mu     sync.RWMutex
	ring   []Event
	next   int
	filled bool
}

type MemoryStoreOption func(*InMemoryStore)

// WithCapacity sets how many events the store retains. Values below one
// are ignored.
func WithCapacity(n int) MemoryStoreOption {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.ring = make([]Event, n)
		}
	}
}

func NewInMemoryStore(opts ...MemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{ring: make([]Event, DefaultMemoryCapacity)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = event
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.filled = true
	}
	return nil
}

// ListByPatron returns the retained events for one patron, oldest first.
func (s *InMemoryStore) ListByPatron(_ context.Context, patronID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.ordered() {
		if e.PatronID == patronID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len reports how many events are retained.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filled {
		return len(s.ring)
	}
	return s.next
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.ring)
	s.next = 0
	s.filled = false
}

func (s *InMemoryStore) ordered() []Event {
	if !s.filled {
		return s.ring[:s.next]
	}
	return append(append([]Event{}, s.ring[s.next:]...), s.ring[:s.next]...)
}
