package domain

import (
	dErrors "condogov/pkg/domain-errors"
)

// ApprovalType distinguishes unconditional approvals from approvals with
// reservations; both close a version under the single-approver policy.
type ApprovalType string

const (
	ApprovalApproved                 ApprovalType = "aprovado"
	ApprovalApprovedWithReservations ApprovalType = "aprovado_com_ressalvas"
)

var validApprovalTypes = map[ApprovalType]bool{
	ApprovalApproved:                 true,
	ApprovalApprovedWithReservations: true,
}

// ParseApprovalType constructs an ApprovalType from external input.
func ParseApprovalType(s string) (ApprovalType, error) {
	t := ApprovalType(s)
	if !validApprovalTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid approval type: "+s)
	}
	return t, nil
}

func (t ApprovalType) IsValid() bool  { return validApprovalTypes[t] }
func (t ApprovalType) String() string { return string(t) }

// StakeholderType classifies who a stakeholder is in the condominium.
type StakeholderType string

const (
	StakeholderSyndic        StakeholderType = "sindico"
	StakeholderCouncilMember StakeholderType = "conselheiro"
	StakeholderAdministrator StakeholderType = "administradora"
	StakeholderResident      StakeholderType = "morador"
	StakeholderOther         StakeholderType = "outro"
)

var validStakeholderTypes = map[StakeholderType]bool{
	StakeholderSyndic:        true,
	StakeholderCouncilMember: true,
	StakeholderAdministrator: true,
	StakeholderResident:      true,
	StakeholderOther:         true,
}

// ParseStakeholderType constructs a StakeholderType from external input.
func ParseStakeholderType(s string) (StakeholderType, error) {
	t := StakeholderType(s)
	if !validStakeholderTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid stakeholder type: "+s)
	}
	return t, nil
}

func (t StakeholderType) IsValid() bool  { return validStakeholderTypes[t] }
func (t StakeholderType) String() string { return string(t) }

// StakeholderRole controls what a stakeholder may do to processes.
type StakeholderRole string

const (
	RoleApprover StakeholderRole = "aprovador"
	RoleViewer   StakeholderRole = "visualizador"
	RoleEditor   StakeholderRole = "editor"
)

var validStakeholderRoles = map[StakeholderRole]bool{
	RoleApprover: true,
	RoleViewer:   true,
	RoleEditor:   true,
}

// ParseStakeholderRole constructs a StakeholderRole from external input.
func ParseStakeholderRole(s string) (StakeholderRole, error) {
	r := StakeholderRole(s)
	if !validStakeholderRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid stakeholder role: "+s)
	}
	return r, nil
}

func (r StakeholderRole) IsValid() bool  { return validStakeholderRoles[r] }
func (r StakeholderRole) String() string { return string(r) }
