//go:build integration

package entity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"condogov/internal/entity"
	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *entity.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = entity.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "entities")
	s.Require().NoError(err)
}

func newStoredEntity(name string, entityType id.EntityType, category id.EntityCategory) *entity.Entity {
	now := time.Now().UTC().Truncate(time.Microsecond)
	e := &entity.Entity{
		ID:        id.EntityID(uuid.New()),
		Name:      name,
		Type:      entityType,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if category != "" {
		e.Category = &category
	}
	return e
}

// ============================================================================
// Create and read back
// ============================================================================

func (s *PostgresStoreSuite) TestCreateAndFindRoundTrip() {
	ctx := context.Background()
	e := newStoredEntity("Elevadores Atlas", id.EntityTypeCompany, id.CategoryElevatorMaintenance)
	e.Phone = "+55 11 4002-8922"
	e.Email = "contato@atlas.example"
	e.ContactPerson = "Carlos"
	e.Address = "Av. Paulista, 1000"

	s.Require().NoError(s.store.Create(ctx, e))

	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(e.Name, found.Name)
	s.Equal(id.EntityTypeCompany, found.Type)
	s.Require().NotNil(found.Category)
	s.Equal(id.CategoryElevatorMaintenance, *found.Category)
	s.Equal(e.Phone, found.Phone)
	s.Equal(e.Email, found.Email)
	s.Equal(e.ContactPerson, found.ContactPerson)
	s.Equal(e.Address, found.Address)
	s.True(found.Active)
}

func (s *PostgresStoreSuite) TestCreateNilCategory() {
	ctx := context.Background()
	e := newStoredEntity("Portão Principal", id.EntityTypeInfrastructure, "")
	s.Require().NoError(s.store.Create(ctx, e))

	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Nil(found.Category)
}

func (s *PostgresStoreSuite) TestDuplicateActiveNameConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("Zelador", id.EntityTypePerson, id.CategoryJanitor)))

	err := s.store.Create(ctx, newStoredEntity("Zelador", id.EntityTypePerson, id.CategoryJanitor))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDeactivatedNameCanBeReused() {
	ctx := context.Background()
	old := newStoredEntity("Porteiro Noturno", id.EntityTypePerson, "")
	s.Require().NoError(s.store.Create(ctx, old))
	s.Require().NoError(s.store.Deactivate(ctx, old.ID))

	// The unique index only covers active rows.
	s.NoError(s.store.Create(ctx, newStoredEntity("Porteiro Noturno", id.EntityTypePerson, "")))
}

func (s *PostgresStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(context.Background(), id.EntityID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// ============================================================================
// Active lookups
// ============================================================================

func (s *PostgresStoreSuite) TestFindActiveByNamesSkipsDeactivated() {
	ctx := context.Background()
	active := newStoredEntity("Bombeiros", id.EntityTypeEmergencyService, id.CategoryFireDepartment)
	active.Phone = "193"
	s.Require().NoError(s.store.Create(ctx, active))

	gone := newStoredEntity("Jardineiro", id.EntityTypePerson, "")
	s.Require().NoError(s.store.Create(ctx, gone))
	s.Require().NoError(s.store.Deactivate(ctx, gone.ID))

	byName, err := s.store.FindActiveByNames(ctx, []string{"Bombeiros", "Jardineiro", "Inexistente"})
	s.Require().NoError(err)
	s.Require().Len(byName, 1)
	s.Require().Contains(byName, "Bombeiros")
	s.Equal("193", byName["Bombeiros"].Phone)
}

func (s *PostgresStoreSuite) TestFindActiveByNamesEmptyInput() {
	byName, err := s.store.FindActiveByNames(context.Background(), nil)
	s.Require().NoError(err)
	s.Empty(byName)
}

func (s *PostgresStoreSuite) TestListActiveSortedByName() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("Zelador", id.EntityTypePerson, id.CategoryJanitor)))
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("administradora Predial", id.EntityTypeCompany, id.CategoryAdministrator)))

	entities, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Require().Len(entities, 2)
	s.Equal("administradora Predial", entities[0].Name)
	s.Equal("Zelador", entities[1].Name)
}

// ============================================================================
// Update, deactivate, list
// ============================================================================

func (s *PostgresStoreSuite) TestUpdatePersistsChanges() {
	ctx := context.Background()
	e := newStoredEntity("SAMU", id.EntityTypeEmergencyService, id.CategoryAmbulance)
	s.Require().NoError(s.store.Create(ctx, e))

	e.Phone = "192"
	e.EmergencyPhone = "192"
	e.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Update(ctx, e))

	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("192", found.Phone)
	s.Equal("192", found.EmergencyPhone)
}

func (s *PostgresStoreSuite) TestUpdateUnknownEntity() {
	e := newStoredEntity("Fantasma", id.EntityTypePerson, "")
	s.ErrorIs(s.store.Update(context.Background(), e), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeactivateRemovesFromActiveViews() {
	ctx := context.Background()
	e := newStoredEntity("Dedetizadora", id.EntityTypeCompany, id.CategoryPestControl)
	s.Require().NoError(s.store.Create(ctx, e))

	s.Require().NoError(s.store.Deactivate(ctx, e.ID))

	// Record survives for history, but active views no longer see it.
	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.False(found.Active)

	active, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Empty(active)
}

func (s *PostgresStoreSuite) TestListFiltersByTypeAndPaginates() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("Atlas Elevadores", id.EntityTypeCompany, id.CategoryElevatorMaintenance)))
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("Boa Vista Jardins", id.EntityTypeCompany, id.CategoryGardening)))
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("Casa Limpa", id.EntityTypeCompany, id.CategoryPestControl)))
	s.Require().NoError(s.store.Create(ctx, newStoredEntity("Zelador", id.EntityTypePerson, id.CategoryJanitor)))

	page1, total, err := s.store.List(ctx, entity.ListFilter{
		Type:     id.EntityTypeCompany,
		Page:     1,
		PageSize: 2,
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(page1, 2)
	s.Equal("Atlas Elevadores", page1[0].Name)

	page2, _, err := s.store.List(ctx, entity.ListFilter{
		Type:     id.EntityTypeCompany,
		Page:     2,
		PageSize: 2,
	})
	s.Require().NoError(err)
	s.Require().Len(page2, 1)
	s.Equal("Casa Limpa", page2[0].Name)
}
