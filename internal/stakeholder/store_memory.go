package stakeholder

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu           sync.RWMutex
	stakeholders map[id.StakeholderID]*Stakeholder
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{stakeholders: make(map[id.StakeholderID]*Stakeholder)}
}

func (s *InMemoryStore) Create(_ context.Context, st *Stakeholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stakeholders[st.ID]; ok {
		return sentinel.ErrConflict
	}
	clone := *st
	s.stakeholders[st.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, stakeholderID id.StakeholderID) (*Stakeholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stakeholders[stakeholderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *st
	return &clone, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*Stakeholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Stakeholder
	for _, st := range s.stakeholders {
		if st.Active {
			clone := *st
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, st *Stakeholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stakeholders[st.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *st
	s.stakeholders[st.ID] = &clone
	return nil
}

func (s *InMemoryStore) Deactivate(_ context.Context, stakeholderID id.StakeholderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stakeholders[stakeholderID]
	if !ok {
		return sentinel.ErrNotFound
	}
	st.Active = false
	return nil
}
