package approval

import (
	"context"

	id "condogov/pkg/domain"
)

// Store is the durable storage for approvals and rejections.
//
// Implementations must uphold:
//   - CreateApproval returns sentinel.ErrConflict when the stakeholder has
//     already approved the version.
//   - Lists return most-recent-first.
type Store interface {
	CreateApproval(ctx context.Context, a *Approval) error
	CreateRejection(ctx context.Context, r *Rejection) error
	ListApprovalsByProcess(ctx context.Context, processID id.ProcessID) ([]*Approval, error)
	ListApprovalsByVersion(ctx context.Context, versionID id.VersionID) ([]*Approval, error)
	ListRejectionsByProcess(ctx context.Context, processID id.ProcessID) ([]*Rejection, error)
	ListRejectionsByVersion(ctx context.Context, versionID id.VersionID) ([]*Rejection, error)
	CountApprovalsForVersion(ctx context.Context, versionID id.VersionID) (int, error)
	// LinkAddressedVersion marks a rejection as resolved by the given
	// version. Returns sentinel.ErrNotFound for an unknown rejection.
	LinkAddressedVersion(ctx context.Context, rejectionID id.RejectionID, versionID id.VersionID) error
}
