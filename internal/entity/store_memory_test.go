package entity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
)

type EntityStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestEntityStoreSuite(t *testing.T) {
	suite.Run(t, new(EntityStoreSuite))
}

func (s *EntityStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *EntityStoreSuite) newEntity(name string, etype id.EntityType) *Entity {
	e, err := New(id.EntityID(uuid.New()), name, etype, nil, time.Now())
	s.Require().NoError(err)
	return e
}

func (s *EntityStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds entity by ID", func() {
		e := s.newEntity("Síndico", id.EntityTypePerson)
		s.Require().NoError(s.store.Create(s.ctx, e))

		found, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		s.Equal(e.Name, found.Name)
		s.True(found.Active)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.EntityID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate id", func() {
		e := s.newEntity("Portaria", id.EntityTypeCompany)
		s.Require().NoError(s.store.Create(s.ctx, e))
		s.Require().ErrorIs(s.store.Create(s.ctx, e), sentinel.ErrConflict)
	})

	s.Run("mutating a returned record does not touch the store", func() {
		e := s.newEntity("Administradora", id.EntityTypeCompany)
		s.Require().NoError(s.store.Create(s.ctx, e))

		found, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		found.Name = "Alterada"

		again, err := s.store.FindByID(s.ctx, e.ID)
		s.Require().NoError(err)
		s.Equal("Administradora", again.Name)
	})
}

func (s *EntityStoreSuite) TestFindActiveByNames() {
	s.Run("resolves only active entities", func() {
		active := s.newEntity("Bombeiros", id.EntityTypeEmergencyService)
		retired := s.newEntity("Portaria Antiga", id.EntityTypeCompany)
		s.Require().NoError(s.store.Create(s.ctx, active))
		s.Require().NoError(s.store.Create(s.ctx, retired))
		s.Require().NoError(s.store.Deactivate(s.ctx, retired.ID))

		found, err := s.store.FindActiveByNames(s.ctx, []string{"Bombeiros", "Portaria Antiga", "Inexistente"})
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("Bombeiros", found[0].Name)
	})

	s.Run("empty name list resolves to nothing", func() {
		found, err := s.store.FindActiveByNames(s.ctx, nil)
		s.Require().NoError(err)
		s.Empty(found)
	})
}

func (s *EntityStoreSuite) TestListAndFilter() {
	s.Run("list filters by type with pagination", func() {
		for _, name := range []string{"Empresa A", "Empresa B", "Empresa C"} {
			s.Require().NoError(s.store.Create(s.ctx, s.newEntity(name, id.EntityTypeCompany)))
		}
		s.Require().NoError(s.store.Create(s.ctx, s.newEntity("Porteiro", id.EntityTypePerson)))

		got, total, err := s.store.List(s.ctx, ListFilter{Type: id.EntityTypeCompany, Page: 2, PageSize: 2})
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Len(got, 1)
	})

	s.Run("deactivated entities drop out of ListActive", func() {
		e := s.newEntity("Samu", id.EntityTypeEmergencyService)
		s.Require().NoError(s.store.Create(s.ctx, e))
		s.Require().NoError(s.store.Deactivate(s.ctx, e.ID))

		active, err := s.store.ListActive(s.ctx)
		s.Require().NoError(err)
		for _, a := range active {
			s.NotEqual(e.ID, a.ID)
		}
	})
}
