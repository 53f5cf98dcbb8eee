package audit

import (
	"context"
	"sync"

	id "condogov/pkg/domain"
)

// InMemoryStore keeps events in insertion order. Intended for tests and
// single-node deployments without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByProcess(_ context.Context, processID id.ProcessID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.ProcessID == processID {
			out = append(out, e)
		}
	}
	return out, nil
}
