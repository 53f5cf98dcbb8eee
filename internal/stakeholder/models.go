package stakeholder

import (
	"strings"
	"time"

	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
)

// Stakeholder is a person or organization that participates in governance:
// creates processes, reviews versions, signs approvals.
type Stakeholder struct {
	ID        id.StakeholderID   `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email,omitempty"`
	Type      id.StakeholderType `json:"stakeholder_type"`
	Role      id.StakeholderRole `json:"role"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func New(stakeholderID id.StakeholderID, name, email string, stype id.StakeholderType, role id.StakeholderRole, now time.Time) (*Stakeholder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "stakeholder name cannot be empty")
	}
	if !stype.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid stakeholder type: "+string(stype))
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid stakeholder role: "+string(role))
	}
	return &Stakeholder{
		ID:        stakeholderID,
		Name:      name,
		Email:     strings.TrimSpace(email),
		Type:      stype,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanApprove reports whether the stakeholder may sign approvals or
// rejections.
func (s *Stakeholder) CanApprove() bool {
	return s.Active && s.Role == id.RoleApprover
}
