package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "condogov/pkg/domain"
)

func newEntity(t *testing.T, name string, etype id.EntityType, category *id.EntityCategory) *Entity {
	t.Helper()
	e, err := New(id.EntityID(uuid.New()), name, etype, category, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return e
}

func catPtr(c id.EntityCategory) *id.EntityCategory { return &c }

func TestMissingFields(t *testing.T) {
	t.Run("person needs only name and type", func(t *testing.T) {
		e := newEntity(t, "Zelador", id.EntityTypePerson, nil)
		assert.Empty(t, MissingFields(e))
		assert.True(t, IsComplete(e))
	})

	t.Run("company needs phone and email", func(t *testing.T) {
		e := newEntity(t, "Limpadora Brilho", id.EntityTypeCompany, nil)
		assert.Equal(t, []string{"phone", "email"}, MissingFields(e))

		e.Phone = "11 5555-0000"
		e.Email = "contato@brilho.br"
		assert.True(t, IsComplete(e))
	})

	t.Run("emergency service needs a phone", func(t *testing.T) {
		e := newEntity(t, "Polícia Militar", id.EntityTypeEmergencyService, nil)
		assert.Equal(t, []string{"phone"}, MissingFields(e))
	})

	t.Run("category rules are additive without duplicates", func(t *testing.T) {
		e := newEntity(t, "Bombeiros", id.EntityTypeEmergencyService, catPtr(id.CategoryFireDepartment))
		// phone appears once even though both rule sets require it.
		assert.Equal(t, []string{"phone", "emergency_phone"}, MissingFields(e))
	})

	t.Run("administrator requires a contact person", func(t *testing.T) {
		e := newEntity(t, "Administradora Central", id.EntityTypeCompany, catPtr(id.CategoryAdministrator))
		e.Phone = "11 2222-0000"
		e.Email = "adm@central.br"
		assert.Equal(t, []string{"contact_person"}, MissingFields(e))

		e.ContactPerson = "Dona Marta"
		assert.True(t, IsComplete(e))
	})

	t.Run("whitespace-only values are not present", func(t *testing.T) {
		e := newEntity(t, "Gás Já", id.EntityTypeCompany, nil)
		e.Phone = "  "
		e.Email = "pedidos@gasja.br"
		assert.Equal(t, []string{"phone"}, MissingFields(e))
	})

	t.Run("category without extra rules adds nothing", func(t *testing.T) {
		e := newEntity(t, "Portão Principal", id.EntityTypeInfrastructure, catPtr(id.CategoryGate))
		assert.Empty(t, MissingFields(e))
	})
}

func TestHasField(t *testing.T) {
	e := newEntity(t, "Elevador Social", id.EntityTypeInfrastructure, catPtr(id.CategoryElevator))
	e.EmergencyPhone = "0800 333 444"

	assert.True(t, e.HasField("name"))
	assert.True(t, e.HasField("type"))
	assert.True(t, e.HasField("emergency_phone"))
	assert.False(t, e.HasField("phone"))
	assert.False(t, e.HasField("campo_desconhecido"))
}
