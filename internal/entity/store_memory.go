package entity

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

// InMemoryStore keeps entities in a map guarded by a RWMutex. Used in unit
// tests and development runs without a database.
type InMemoryStore struct {
	mu       sync.RWMutex
	entities map[id.EntityID]*Entity
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entities: make(map[id.EntityID]*Entity)}
}

func (s *InMemoryStore) Create(_ context.Context, e *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[e.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *e
	s.entities[e.ID] = &clone
	return nil
}

func (s *InMemoryStore) Update(ctx context.Context, e *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[e.ID]; !exists {
		return sentinel.ErrNotFound
	}
	clone := *e
	clone.UpdatedAt = requestcontext.Now(ctx)
	s.entities[e.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, entityID id.EntityID) (*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (s *InMemoryStore) FindActiveByNames(_ context.Context, names []string) (map[string]*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	found := make(map[string]*Entity)
	for _, e := range s.entities {
		if !e.Active || !wanted[e.Name] {
			continue
		}
		clone := *e
		found[e.Name] = &clone
	}
	return found, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entity
	for _, e := range s.entities {
		if !e.Active {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *InMemoryStore) List(ctx context.Context, filter ListFilter) ([]*Entity, int, error) {
	all, err := s.ListActive(ctx)
	if err != nil {
		return nil, 0, err
	}

	var matched []*Entity
	for _, e := range all {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Category != "" && (e.Category == nil || *e.Category != filter.Category) {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *InMemoryStore) Deactivate(ctx context.Context, entityID id.EntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[entityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.Active = false
	e.UpdatedAt = requestcontext.Now(ctx)
	return nil
}
