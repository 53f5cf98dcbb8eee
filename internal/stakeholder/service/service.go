// Package service manages the stakeholder registry: the people and
// organizations allowed to create, review and sign governance processes.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"condogov/internal/stakeholder"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

type Service struct {
	store stakeholder.Store
}

func NewService(store stakeholder.Store) *Service {
	return &Service{store: store}
}

// CreateSpec carries the fields accepted when registering a stakeholder.
type CreateSpec struct {
	Name  string
	Email string
	Type  id.StakeholderType
	Role  id.StakeholderRole
}

func (s *Service) Create(ctx context.Context, spec CreateSpec) (*stakeholder.Stakeholder, error) {
	st, err := stakeholder.New(id.StakeholderID(uuid.New()), spec.Name, spec.Email, spec.Type, spec.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create stakeholder")
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, stakeholderID id.StakeholderID) (*stakeholder.Stakeholder, error) {
	st, err := s.store.FindByID(ctx, stakeholderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "stakeholder not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "stakeholder store failure")
	}
	return st, nil
}

func (s *Service) ListActive(ctx context.Context) ([]*stakeholder.Stakeholder, error) {
	stakeholders, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list stakeholders")
	}
	return stakeholders, nil
}

// UpdateSpec carries optional field updates; nil fields stay unchanged.
type UpdateSpec struct {
	Name  *string
	Email *string
	Role  *id.StakeholderRole
}

func (s *Service) Update(ctx context.Context, stakeholderID id.StakeholderID, spec UpdateSpec) (*stakeholder.Stakeholder, error) {
	st, err := s.Get(ctx, stakeholderID)
	if err != nil {
		return nil, err
	}
	if spec.Name != nil {
		name := strings.TrimSpace(*spec.Name)
		if name == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "stakeholder name cannot be empty")
		}
		st.Name = name
	}
	if spec.Email != nil {
		st.Email = *spec.Email
	}
	if spec.Role != nil {
		if !spec.Role.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid stakeholder role: "+string(*spec.Role))
		}
		st.Role = *spec.Role
	}
	st.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, st); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "stakeholder not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update stakeholder")
	}
	return st, nil
}

// Deactivate soft-removes a stakeholder. Their past approvals and rejections
// remain attributed; they simply cannot sign new ones.
func (s *Service) Deactivate(ctx context.Context, stakeholderID id.StakeholderID) error {
	if err := s.store.Deactivate(ctx, stakeholderID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "stakeholder not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to deactivate stakeholder")
	}
	return nil
}
