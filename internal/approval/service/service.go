package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"condogov/internal/approval"
	"condogov/internal/platform/metrics"
	"condogov/internal/process"
	"condogov/internal/stakeholder"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/audit"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

// Service records approval and rejection decisions and applies their status
// transitions. Approvals move status through a pluggable TransitionPolicy; a
// rejection always lands the version in rejeitado.
type Service struct {
	store     approval.Store
	processes process.Store
	policy    approval.TransitionPolicy
	directory stakeholder.Store
	auditor   *audit.Publisher
	metrics   *metrics.Metrics
}

func NewService(store approval.Store, processes process.Store, auditor *audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		processes: processes,
		policy:    approval.SingleApproverPolicy{},
		auditor:   auditor,
		metrics:   m,
	}
}

// WithPolicy swaps the transition policy. Intended for deployments that
// require more than one sign-off.
func (s *Service) WithPolicy(policy approval.TransitionPolicy) *Service {
	s.policy = policy
	return s
}

// WithApproverDirectory enables role checking against registered
// stakeholders. Without a directory, any authenticated stakeholder may sign.
func (s *Service) WithApproverDirectory(directory stakeholder.Store) *Service {
	s.directory = directory
	return s
}

// ApproveSpec carries the fields accepted when approving a version.
type ApproveSpec struct {
	Type     id.ApprovalType
	Comments string
}

// Approve records a stakeholder's sign-off on a version. The record is
// written first; whether it closes the version is up to the policy, and the
// status write is a compare-and-set so a concurrent rejection wins the race.
func (s *Service) Approve(ctx context.Context, processID id.ProcessID, versionID id.VersionID, stakeholder id.StakeholderID, spec ApproveSpec) (*approval.Approval, error) {
	version, err := s.resolveVersion(ctx, processID, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSigner(ctx, stakeholder); err != nil {
		return nil, err
	}

	a, err := approval.NewApproval(id.ApprovalID(uuid.New()), processID, versionID, stakeholder, spec.Type, spec.Comments, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateApproval(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "stakeholder has already approved this version")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to record approval")
	}
	s.metrics.IncrementApprovalsRecorded()

	total, err := s.store.CountApprovalsForVersion(ctx, versionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count approvals")
	}
	if next, transition := s.policy.Decide(version.Status, total); transition {
		// A lost swap means the status moved underneath us, typically a
		// concurrent rejection. The approval record still stands.
		if _, err := s.processes.TransitionStatusIf(ctx, processID, versionID, version.Status, next); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to transition version status")
		}
	}

	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: stakeholder,
		ProcessID:     processID,
		VersionID:     versionID,
		Action:        audit.ActionVersionApproved,
		Detail:        string(a.Type),
	})
	return a, nil
}

// Reject records a refusal and unconditionally moves the version and its
// process to rejeitado, whatever state they were in.
func (s *Service) Reject(ctx context.Context, processID id.ProcessID, versionID id.VersionID, stakeholder id.StakeholderID, reason string) (*approval.Rejection, error) {
	if _, err := s.resolveVersion(ctx, processID, versionID); err != nil {
		return nil, err
	}
	if err := s.authorizeSigner(ctx, stakeholder); err != nil {
		return nil, err
	}

	r, err := approval.NewRejection(id.RejectionID(uuid.New()), processID, versionID, stakeholder, reason, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateRejection(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to record rejection")
	}
	s.metrics.IncrementRejectionsRecorded()

	if err := s.processes.TransitionStatus(ctx, processID, versionID, id.StatusRejected); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to transition version status")
	}

	s.auditor.Emit(ctx, audit.Event{
		StakeholderID: stakeholder,
		ProcessID:     processID,
		VersionID:     versionID,
		Action:        audit.ActionVersionRejected,
		Detail:        r.Reason,
	})
	return r, nil
}

// MarkRejectionAddressed links a rejection to the version that claims to
// resolve it. The linkage is explicit; appending a version never sets it
// implicitly.
func (s *Service) MarkRejectionAddressed(ctx context.Context, rejectionID id.RejectionID, versionID id.VersionID) error {
	if _, err := s.processes.FindVersion(ctx, versionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "version not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "process store failure")
	}
	if err := s.store.LinkAddressedVersion(ctx, rejectionID, versionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "rejection not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to link rejection")
	}
	return nil
}

func (s *Service) ListApprovalsByProcess(ctx context.Context, processID id.ProcessID) ([]*approval.Approval, error) {
	approvals, err := s.store.ListApprovalsByProcess(ctx, processID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list approvals")
	}
	return approvals, nil
}

func (s *Service) ListApprovalsByVersion(ctx context.Context, versionID id.VersionID) ([]*approval.Approval, error) {
	approvals, err := s.store.ListApprovalsByVersion(ctx, versionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list approvals")
	}
	return approvals, nil
}

func (s *Service) ListRejectionsByProcess(ctx context.Context, processID id.ProcessID) ([]*approval.Rejection, error) {
	rejections, err := s.store.ListRejectionsByProcess(ctx, processID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list rejections")
	}
	return rejections, nil
}

func (s *Service) ListRejectionsByVersion(ctx context.Context, versionID id.VersionID) ([]*approval.Rejection, error) {
	rejections, err := s.store.ListRejectionsByVersion(ctx, versionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list rejections")
	}
	return rejections, nil
}

// authorizeSigner checks the signer against the stakeholder directory when
// one is configured. Deployments without a directory trust the token alone.
func (s *Service) authorizeSigner(ctx context.Context, signerID id.StakeholderID) error {
	if s.directory == nil {
		return nil
	}
	record, err := s.directory.FindByID(ctx, signerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeForbidden, "stakeholder is not registered")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "stakeholder store failure")
	}
	if !record.CanApprove() {
		return dErrors.New(dErrors.CodeForbidden, "stakeholder role cannot sign approvals")
	}
	return nil
}

// resolveVersion checks that both the process and the version exist and that
// the version belongs to the process. A mismatch reads as not found, never
// as a hint that the version exists elsewhere.
func (s *Service) resolveVersion(ctx context.Context, processID id.ProcessID, versionID id.VersionID) (*process.ProcessVersion, error) {
	if _, err := s.processes.FindByID(ctx, processID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "process not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "process store failure")
	}
	version, err := s.processes.FindVersion(ctx, versionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "version not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "process store failure")
	}
	if version.ProcessID != processID {
		return nil, dErrors.New(dErrors.CodeNotFound, "version not found")
	}
	return version, nil
}
