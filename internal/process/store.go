package process

import (
	"context"

	id "condogov/pkg/domain"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Category id.ProcessCategory
	Status   id.ProcessStatus
	Page     int
	PageSize int
}

// Store is the durable storage for processes and their versions.
//
// Implementations must uphold:
//   - CreateWithVersion is atomic: the process and its version 1 commit
//     together or not at all.
//   - AppendVersion is atomic with the parent process's counter update and
//     returns sentinel.ErrConflict on a duplicate (process, version number).
//   - Delete cascades to versions, approvals and rejections, atomically.
type Store interface {
	CreateWithVersion(ctx context.Context, p *Process, v *ProcessVersion) error
	AppendVersion(ctx context.Context, v *ProcessVersion) error
	FindByID(ctx context.Context, processID id.ProcessID) (*Process, error)
	FindVersion(ctx context.Context, versionID id.VersionID) (*ProcessVersion, error)
	// CurrentVersion returns the version with the highest version number.
	CurrentVersion(ctx context.Context, processID id.ProcessID) (*ProcessVersion, error)
	ListVersions(ctx context.Context, processID id.ProcessID) ([]*ProcessVersion, error)
	List(ctx context.Context, filter ListFilter) ([]*Process, int, error)
	ListAll(ctx context.Context) ([]*Process, error)
	Update(ctx context.Context, p *Process) error
	Delete(ctx context.Context, processID id.ProcessID) error
	Count(ctx context.Context) (int, error)

	// TransitionStatus unconditionally sets the status of a version and its
	// parent process (rejection always wins).
	TransitionStatus(ctx context.Context, processID id.ProcessID, versionID id.VersionID, to id.ProcessStatus) error
	// TransitionStatusIf is a compare-and-set: the transition applies only
	// when the version's current status equals from. Returns whether the
	// swap happened.
	TransitionStatusIf(ctx context.Context, processID id.ProcessID, versionID id.VersionID, from, to id.ProcessStatus) (bool, error)
}
