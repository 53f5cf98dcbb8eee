package process

import (
	"context"
	"sort"
	"sync"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

// CascadeHook is invoked inside Delete so sibling in-memory stores can drop
// their rows for the process (approvals, rejections). The postgres store
// relies on foreign-key cascades instead.
type CascadeHook func(processID id.ProcessID)

// InMemoryStore keeps processes and versions in maps guarded by one mutex so
// multi-record operations stay atomic.
type InMemoryStore struct {
	mu        sync.RWMutex
	processes map[id.ProcessID]*Process
	versions  map[id.VersionID]*ProcessVersion
	cascades  []CascadeHook
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		processes: make(map[id.ProcessID]*Process),
		versions:  make(map[id.VersionID]*ProcessVersion),
	}
}

// OnDelete registers a cascade hook. Not safe for concurrent use; wire
// during startup.
func (s *InMemoryStore) OnDelete(hook CascadeHook) {
	s.cascades = append(s.cascades, hook)
}

func (s *InMemoryStore) CreateWithVersion(_ context.Context, p *Process, v *ProcessVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.processes[p.ID]; exists {
		return sentinel.ErrConflict
	}
	pClone := *p
	vClone := *v
	s.processes[p.ID] = &pClone
	s.versions[v.ID] = &vClone
	return nil
}

func (s *InMemoryStore) AppendVersion(ctx context.Context, v *ProcessVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processes[v.ProcessID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.versions {
		if existing.ProcessID == v.ProcessID && existing.VersionNumber == v.VersionNumber {
			return sentinel.ErrConflict
		}
	}
	clone := *v
	s.versions[v.ID] = &clone
	if v.VersionNumber > p.CurrentVersionNumber {
		p.CurrentVersionNumber = v.VersionNumber
	}
	p.Status = v.Status
	p.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, processID id.ProcessID) (*Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.processes[processID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *InMemoryStore) FindVersion(_ context.Context, versionID id.VersionID) (*ProcessVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[versionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *InMemoryStore) CurrentVersion(_ context.Context, processID id.ProcessID) (*ProcessVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var current *ProcessVersion
	for _, v := range s.versions {
		if v.ProcessID != processID {
			continue
		}
		if current == nil || v.VersionNumber > current.VersionNumber {
			current = v
		}
	}
	if current == nil {
		return nil, sentinel.ErrNotFound
	}
	clone := *current
	return &clone, nil
}

func (s *InMemoryStore) ListVersions(_ context.Context, processID id.ProcessID) ([]*ProcessVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ProcessVersion
	for _, v := range s.versions {
		if v.ProcessID != processID {
			continue
		}
		clone := *v
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber < out[j].VersionNumber
	})
	return out, nil
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]*Process, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Process
	for _, p := range s.processes {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	// Most recent first, matching the postgres ordering.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

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

func (s *InMemoryStore) ListAll(_ context.Context) ([]*Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Update(ctx context.Context, p *Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *p
	clone.UpdatedAt = requestcontext.Now(ctx)
	s.processes[p.ID] = &clone
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, processID id.ProcessID) error {
	s.mu.Lock()
	if _, ok := s.processes[processID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.processes, processID)
	for vid, v := range s.versions {
		if v.ProcessID == processID {
			delete(s.versions, vid)
		}
	}
	hooks := s.cascades
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(processID)
	}
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes), nil
}

func (s *InMemoryStore) TransitionStatus(ctx context.Context, processID id.ProcessID, versionID id.VersionID, to id.ProcessStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processes[processID]
	if !ok {
		return sentinel.ErrNotFound
	}
	v, ok := s.versions[versionID]
	if !ok || v.ProcessID != processID {
		return sentinel.ErrNotFound
	}
	v.Status = to
	p.Status = to
	p.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemoryStore) TransitionStatusIf(ctx context.Context, processID id.ProcessID, versionID id.VersionID, from, to id.ProcessStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processes[processID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	v, ok := s.versions[versionID]
	if !ok || v.ProcessID != processID {
		return false, sentinel.ErrNotFound
	}
	if v.Status != from {
		return false, nil
	}
	v.Status = to
	p.Status = to
	p.UpdatedAt = requestcontext.Now(ctx)
	return true, nil
}
