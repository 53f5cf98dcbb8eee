package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"condogov/internal/entity"
	id "condogov/pkg/domain"
	"condogov/pkg/requestcontext"
)

// =============================================================================
// Entity Validator Test Suite
// =============================================================================

type ValidatorSuite struct {
	suite.Suite
	entities *entity.InMemoryStore
	service  *Service
	ctx      context.Context
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.entities = entity.NewInMemoryStore()
	s.service = NewService(s.entities, 5*time.Minute, nil)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC))
}

func (s *ValidatorSuite) seed(name string, etype id.EntityType, category *id.EntityCategory, mutate func(*entity.Entity)) *entity.Entity {
	e, err := entity.New(id.EntityID(uuid.New()), name, etype, category, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	if mutate != nil {
		mutate(e)
	}
	s.Require().NoError(s.entities.Create(s.ctx, e))
	return e
}

func categoryPtr(c id.EntityCategory) *id.EntityCategory { return &c }

func (s *ValidatorSuite) TestValidateEntities() {
	s.Run("empty input is trivially valid", func() {
		result, err := s.service.ValidateEntities(s.ctx, nil)
		s.NoError(err)
		s.True(result.Valid)
		s.Empty(result.MissingEntities)
		s.Empty(result.IncompleteEntities)
		s.Empty(result.Errors)
	})

	s.Run("sets the cache expiry from the configured ttl", func() {
		result, err := s.service.ValidateEntities(s.ctx, nil)
		s.NoError(err)
		s.Equal(requestcontext.Now(s.ctx).Add(5*time.Minute), result.ExpiresAt)
	})

	s.Run("missing names keep the caller's ordering", func() {
		s.seed("Síndico", id.EntityTypePerson, nil, func(e *entity.Entity) {
			e.Phone = "11 99999-0001"
			e.Email = "sindico@cond.br"
		})
		result, err := s.service.ValidateEntities(s.ctx, []string{"Zeladoria", "Síndico", "Administradora"})
		s.NoError(err)
		s.False(result.Valid)
		s.Equal([]string{"Zeladoria", "Administradora"}, result.MissingEntities)
	})

	s.Run("complete person validates", func() {
		s.seed("Porteiro Noturno", id.EntityTypePerson, nil, nil)
		result, err := s.service.ValidateEntities(s.ctx, []string{"Porteiro Noturno"})
		s.NoError(err)
		s.True(result.Valid)
	})

	s.Run("company without phone and email is incomplete", func() {
		s.seed("Jardinagem Verde", id.EntityTypeCompany, categoryPtr(id.CategoryGardening), nil)
		result, err := s.service.ValidateEntities(s.ctx, []string{"Jardinagem Verde"})
		s.NoError(err)
		s.False(result.Valid)
		s.Require().Len(result.IncompleteEntities, 1)
		s.Equal([]string{"phone", "email"}, result.IncompleteEntities[0].MissingFields)
	})

	s.Run("fire department needs an emergency phone on top of the type rules", func() {
		s.seed("Bombeiros", id.EntityTypeEmergencyService, categoryPtr(id.CategoryFireDepartment), func(e *entity.Entity) {
			e.Phone = "193"
		})
		result, err := s.service.ValidateEntities(s.ctx, []string{"Bombeiros"})
		s.NoError(err)
		s.False(result.Valid)
		s.Require().Len(result.IncompleteEntities, 1)
		s.Equal([]string{"emergency_phone"}, result.IncompleteEntities[0].MissingFields)
	})

	s.Run("category rules do not duplicate fields the type rules flagged", func() {
		s.seed("SAMU", id.EntityTypeEmergencyService, categoryPtr(id.CategoryAmbulance), nil)
		result, err := s.service.ValidateEntities(s.ctx, []string{"SAMU"})
		s.NoError(err)
		s.Require().Len(result.IncompleteEntities, 1)
		// phone comes from the type rule only; emergency_phone from the
		// category rule.
		s.Equal([]string{"phone", "emergency_phone"}, result.IncompleteEntities[0].MissingFields)
	})

	s.Run("whitespace-only field values count as missing", func() {
		s.seed("Dedetizadora Já", id.EntityTypeCompany, categoryPtr(id.CategoryPestControl), func(e *entity.Entity) {
			e.Phone = "   "
			e.Email = "contato@dedetiza.br"
		})
		result, err := s.service.ValidateEntities(s.ctx, []string{"Dedetizadora Já"})
		s.NoError(err)
		s.Require().Len(result.IncompleteEntities, 1)
		s.Equal([]string{"phone"}, result.IncompleteEntities[0].MissingFields)
	})

	s.Run("deactivated entities read as absent", func() {
		e := s.seed("Portaria Antiga", id.EntityTypeCompany, categoryPtr(id.CategoryRemoteConcierge), func(e *entity.Entity) {
			e.Phone = "11 3333-0000"
			e.Email = "portaria@cond.br"
		})
		s.Require().NoError(s.entities.Deactivate(s.ctx, e.ID))

		result, err := s.service.ValidateEntities(s.ctx, []string{"Portaria Antiga"})
		s.NoError(err)
		s.Equal([]string{"Portaria Antiga"}, result.MissingEntities)
	})

	s.Run("an incomplete entity is never also missing", func() {
		s.seed("Administradora Predial", id.EntityTypeCompany, categoryPtr(id.CategoryAdministrator), func(e *entity.Entity) {
			e.Phone = "11 4444-0000"
			e.Email = "adm@predial.br"
		})
		result, err := s.service.ValidateEntities(s.ctx, []string{"Administradora Predial"})
		s.NoError(err)
		s.Empty(result.MissingEntities)
		s.Require().Len(result.IncompleteEntities, 1)
		s.Equal([]string{"contact_person"}, result.IncompleteEntities[0].MissingFields)
	})
}

func (s *ValidatorSuite) TestProjections() {
	s.seed("Elevadores Sobe", id.EntityTypeCompany, categoryPtr(id.CategoryElevatorMaintenance), nil)

	s.Run("GetMissingEntities returns only unresolved names", func() {
		missing, err := s.service.GetMissingEntities(s.ctx, []string{"Elevadores Sobe", "Inexistente"})
		s.NoError(err)
		s.Equal([]string{"Inexistente"}, missing)
	})

	s.Run("GetIncompleteEntities returns only rule failures", func() {
		incomplete, err := s.service.GetIncompleteEntities(s.ctx, []string{"Elevadores Sobe", "Inexistente"})
		s.NoError(err)
		s.Require().Len(incomplete, 1)
		s.Equal("Elevadores Sobe", incomplete[0].Name)
	})
}
