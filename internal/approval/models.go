package approval

import (
	"strings"
	"time"

	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
)

// MinRejectionReasonLength is the shortest reason a reviewer may give when
// rejecting a version.
const MinRejectionReasonLength = 10

// Approval records a stakeholder's sign-off on a specific version.
//
// Invariant: (VersionID, StakeholderID) is unique; a stakeholder approves a
// version at most once.
type Approval struct {
	ID            id.ApprovalID    `json:"id"`
	ProcessID     id.ProcessID     `json:"process_id"`
	VersionID     id.VersionID     `json:"version_id"`
	StakeholderID id.StakeholderID `json:"stakeholder_id"`
	Type          id.ApprovalType  `json:"approval_type"`
	Comments      string           `json:"comments,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Rejection records a reviewer's refusal with a mandatory reason.
// AddressedInVersionID is set later, when a follow-up version explicitly
// claims to resolve this rejection.
type Rejection struct {
	ID                   id.RejectionID   `json:"id"`
	ProcessID            id.ProcessID     `json:"process_id"`
	VersionID            id.VersionID     `json:"version_id"`
	StakeholderID        id.StakeholderID `json:"stakeholder_id"`
	Reason               string           `json:"reason"`
	AddressedInVersionID *id.VersionID    `json:"addressed_in_version_id,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}

// NewApproval validates and constructs an approval record.
func NewApproval(approvalID id.ApprovalID, processID id.ProcessID, versionID id.VersionID, stakeholder id.StakeholderID, approvalType id.ApprovalType, comments string, now time.Time) (*Approval, error) {
	if !approvalType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid approval type: "+string(approvalType))
	}
	if stakeholder.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "stakeholder id is required")
	}
	return &Approval{
		ID:            approvalID,
		ProcessID:     processID,
		VersionID:     versionID,
		StakeholderID: stakeholder,
		Type:          approvalType,
		Comments:      strings.TrimSpace(comments),
		CreatedAt:     now,
	}, nil
}

// NewRejection validates and constructs a rejection record. A reason shorter
// than MinRejectionReasonLength fails before anything is written.
func NewRejection(rejectionID id.RejectionID, processID id.ProcessID, versionID id.VersionID, stakeholder id.StakeholderID, reason string, now time.Time) (*Rejection, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < MinRejectionReasonLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rejection reason must have at least 10 characters")
	}
	if stakeholder.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "stakeholder id is required")
	}
	return &Rejection{
		ID:            rejectionID,
		ProcessID:     processID,
		VersionID:     versionID,
		StakeholderID: stakeholder,
		Reason:        reason,
		CreatedAt:     now,
	}, nil
}
