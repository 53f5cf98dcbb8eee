package entity

import (
	"strings"
	"time"

	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
)

// Entity is a referenced real-world actor or asset (person, company,
// emergency service, infrastructure item) that governance processes mention
// by name.
//
// Invariants:
//   - Name is non-empty; it is the human key used by process content.
//   - Type is always set; Category is optional but must belong to the fixed
//     vocabulary when present.
//   - Entities are never hard-deleted; Active is a soft flag and inactive
//     entities are invisible to validation.
type Entity struct {
	ID       id.EntityID        `json:"id"`
	Name     string             `json:"name"`
	Type     id.EntityType      `json:"type"`
	Category *id.EntityCategory `json:"category,omitempty"`

	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`

	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`

	EmergencyPhone string `json:"emergency_phone,omitempty"`
	MeetingPoint   string `json:"meeting_point,omitempty"`

	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldValue returns the value of a rule-table field by its persisted name.
// The boolean reports whether the field name is known at all.
func (e *Entity) FieldValue(field string) (string, bool) {
	switch field {
	case "name":
		return e.Name, true
	case "type":
		return string(e.Type), true
	case "phone":
		return e.Phone, true
	case "email":
		return e.Email, true
	case "contact_person":
		return e.ContactPerson, true
	case "emergency_phone":
		return e.EmergencyPhone, true
	case "meeting_point":
		return e.MeetingPoint, true
	case "address":
		return e.Address, true
	case "description":
		return e.Description, true
	default:
		return "", false
	}
}

// HasField reports whether the field is present: non-empty after trimming
// whitespace.
func (e *Entity) HasField(field string) bool {
	value, known := e.FieldValue(field)
	if !known {
		return false
	}
	return strings.TrimSpace(value) != ""
}

// New validates invariants and constructs an active entity.
func New(entityID id.EntityID, name string, entityType id.EntityType, category *id.EntityCategory, now time.Time) (*Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entity name cannot be empty")
	}
	if !entityType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid entity type: "+string(entityType))
	}
	if category != nil && !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid entity category: "+string(*category))
	}
	return &Entity{
		ID:        entityID,
		Name:      name,
		Type:      entityType,
		Category:  category,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
