package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"condogov/internal/entity"
	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/requestcontext"
)

// Service orchestrates the entity registry lifecycle. Validation of enum
// values happens at the boundary; the service enforces record invariants and
// translates store facts into domain errors.
type Service struct {
	store entity.Store
}

func NewService(store entity.Store) *Service {
	return &Service{store: store}
}

// CreateSpec carries the fields accepted when registering an entity.
type CreateSpec struct {
	Name           string
	Type           id.EntityType
	Category       *id.EntityCategory
	Phone          string
	Email          string
	ContactPerson  string
	Description    string
	Address        string
	EmergencyPhone string
	MeetingPoint   string
}

func (s *Service) Create(ctx context.Context, spec CreateSpec) (*entity.Entity, error) {
	e, err := entity.New(id.EntityID(uuid.New()), spec.Name, spec.Type, spec.Category, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	e.Phone = strings.TrimSpace(spec.Phone)
	e.Email = strings.TrimSpace(spec.Email)
	e.ContactPerson = strings.TrimSpace(spec.ContactPerson)
	e.Description = spec.Description
	e.Address = spec.Address
	e.EmergencyPhone = strings.TrimSpace(spec.EmergencyPhone)
	e.MeetingPoint = spec.MeetingPoint

	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "entity already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create entity")
	}
	return e, nil
}

// UpdateSpec carries optional entity mutations; nil fields are untouched.
type UpdateSpec struct {
	Name           *string
	Type           *id.EntityType
	Category       *id.EntityCategory
	Phone          *string
	Email          *string
	ContactPerson  *string
	Description    *string
	Address        *string
	EmergencyPhone *string
	MeetingPoint   *string
}

func (s *Service) Update(ctx context.Context, entityID id.EntityID, spec UpdateSpec) (*entity.Entity, error) {
	e, err := s.store.FindByID(ctx, entityID)
	if err != nil {
		return nil, wrapEntityErr(err)
	}

	if spec.Name != nil {
		name := strings.TrimSpace(*spec.Name)
		if name == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "entity name cannot be empty")
		}
		e.Name = name
	}
	if spec.Type != nil {
		if !spec.Type.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid entity type")
		}
		e.Type = *spec.Type
	}
	if spec.Category != nil {
		if !spec.Category.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid entity category")
		}
		e.Category = spec.Category
	}
	if spec.Phone != nil {
		e.Phone = strings.TrimSpace(*spec.Phone)
	}
	if spec.Email != nil {
		e.Email = strings.TrimSpace(*spec.Email)
	}
	if spec.ContactPerson != nil {
		e.ContactPerson = strings.TrimSpace(*spec.ContactPerson)
	}
	if spec.Description != nil {
		e.Description = *spec.Description
	}
	if spec.Address != nil {
		e.Address = *spec.Address
	}
	if spec.EmergencyPhone != nil {
		e.EmergencyPhone = strings.TrimSpace(*spec.EmergencyPhone)
	}
	if spec.MeetingPoint != nil {
		e.MeetingPoint = *spec.MeetingPoint
	}
	e.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, e); err != nil {
		return nil, wrapEntityErr(err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, entityID id.EntityID) (*entity.Entity, error) {
	e, err := s.store.FindByID(ctx, entityID)
	if err != nil {
		return nil, wrapEntityErr(err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filter entity.ListFilter) ([]*entity.Entity, int, error) {
	entities, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list entities")
	}
	return entities, total, nil
}

// Deactivate soft-deletes an entity; it disappears from validation lookups
// but the record remains.
func (s *Service) Deactivate(ctx context.Context, entityID id.EntityID) error {
	if err := s.store.Deactivate(ctx, entityID); err != nil {
		return wrapEntityErr(err)
	}
	return nil
}

func wrapEntityErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "entity store failure")
}
