// Package domain holds typed identifiers and closed vocabularies shared by
// all features. Constructing values through the Parse* functions is the only
// supported path at trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "condogov/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. A VersionID can
// never be passed where a ProcessID is expected.
type (
	StakeholderID uuid.UUID
	ProcessID     uuid.UUID
	VersionID     uuid.UUID
	EntityID      uuid.UUID
	ApprovalID    uuid.UUID
	RejectionID   uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}

// ParseStakeholderID validates and converts an external string into a StakeholderID.
func ParseStakeholderID(s string) (StakeholderID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return StakeholderID{}, err
	}
	return StakeholderID(parsed), nil
}

// ParseProcessID validates and converts an external string into a ProcessID.
func ParseProcessID(s string) (ProcessID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return ProcessID{}, err
	}
	return ProcessID(parsed), nil
}

// ParseVersionID validates and converts an external string into a VersionID.
func ParseVersionID(s string) (VersionID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return VersionID{}, err
	}
	return VersionID(parsed), nil
}

// ParseEntityID validates and converts an external string into an EntityID.
func ParseEntityID(s string) (EntityID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return EntityID{}, err
	}
	return EntityID(parsed), nil
}

// ParseApprovalID validates and converts an external string into an ApprovalID.
func ParseApprovalID(s string) (ApprovalID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return ApprovalID{}, err
	}
	return ApprovalID(parsed), nil
}

// ParseRejectionID validates and converts an external string into a RejectionID.
func ParseRejectionID(s string) (RejectionID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return RejectionID{}, err
	}
	return RejectionID(parsed), nil
}

func (id StakeholderID) String() string { return uuid.UUID(id).String() }
func (id ProcessID) String() string     { return uuid.UUID(id).String() }
func (id VersionID) String() string     { return uuid.UUID(id).String() }
func (id EntityID) String() string      { return uuid.UUID(id).String() }
func (id ApprovalID) String() string    { return uuid.UUID(id).String() }
func (id RejectionID) String() string   { return uuid.UUID(id).String() }

func (id StakeholderID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProcessID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id VersionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id EntityID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
