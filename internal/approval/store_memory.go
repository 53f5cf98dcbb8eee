package approval

import (
	"context"
	"sort"
	"sync"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
)

// InMemoryStore keeps approvals and rejections behind a single mutex so the
// uniqueness check and the insert are atomic.
type InMemoryStore struct {
	mu         sync.RWMutex
	approvals  []*Approval
	rejections []*Rejection
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// DropProcess removes all decision rows for a process. Registered as the
// cascade hook of the in-memory process store.
func (s *InMemoryStore) DropProcess(processID id.ProcessID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	approvals := s.approvals[:0]
	for _, a := range s.approvals {
		if a.ProcessID != processID {
			approvals = append(approvals, a)
		}
	}
	s.approvals = approvals
	rejections := s.rejections[:0]
	for _, r := range s.rejections {
		if r.ProcessID != processID {
			rejections = append(rejections, r)
		}
	}
	s.rejections = rejections
}

func (s *InMemoryStore) CreateApproval(_ context.Context, a *Approval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.approvals {
		if existing.VersionID == a.VersionID && existing.StakeholderID == a.StakeholderID {
			return sentinel.ErrConflict
		}
	}
	clone := *a
	s.approvals = append(s.approvals, &clone)
	return nil
}

func (s *InMemoryStore) CreateRejection(_ context.Context, r *Rejection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *r
	s.rejections = append(s.rejections, &clone)
	return nil
}

func (s *InMemoryStore) ListApprovalsByProcess(_ context.Context, processID id.ProcessID) ([]*Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Approval
	for _, a := range s.approvals {
		if a.ProcessID == processID {
			clone := *a
			out = append(out, &clone)
		}
	}
	sortApprovals(out)
	return out, nil
}

func (s *InMemoryStore) ListApprovalsByVersion(_ context.Context, versionID id.VersionID) ([]*Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Approval
	for _, a := range s.approvals {
		if a.VersionID == versionID {
			clone := *a
			out = append(out, &clone)
		}
	}
	sortApprovals(out)
	return out, nil
}

func (s *InMemoryStore) ListRejectionsByProcess(_ context.Context, processID id.ProcessID) ([]*Rejection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Rejection
	for _, r := range s.rejections {
		if r.ProcessID == processID {
			clone := *r
			out = append(out, &clone)
		}
	}
	sortRejections(out)
	return out, nil
}

func (s *InMemoryStore) ListRejectionsByVersion(_ context.Context, versionID id.VersionID) ([]*Rejection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Rejection
	for _, r := range s.rejections {
		if r.VersionID == versionID {
			clone := *r
			out = append(out, &clone)
		}
	}
	sortRejections(out)
	return out, nil
}

func (s *InMemoryStore) CountApprovalsForVersion(_ context.Context, versionID id.VersionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.approvals {
		if a.VersionID == versionID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) LinkAddressedVersion(_ context.Context, rejectionID id.RejectionID, versionID id.VersionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rejections {
		if r.ID == rejectionID {
			v := versionID
			r.AddressedInVersionID = &v
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func sortApprovals(approvals []*Approval) {
	sort.SliceStable(approvals, func(i, j int) bool {
		return approvals[i].CreatedAt.After(approvals[j].CreatedAt)
	})
}

func sortRejections(rejections []*Rejection) {
	sort.SliceStable(rejections, func(i, j int) bool {
		return rejections[i].CreatedAt.After(rejections[j].CreatedAt)
	})
}
