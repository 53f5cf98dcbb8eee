package entity

import (
	id "condogov/pkg/domain"
)

// Required-field rule tables. Data-driven so the rule set stays open to
// extension without conditional branching.
//
// Category rules are additive on top of type rules: a field already flagged
// missing by the type rule is not reported twice.

// requiredFieldsByType is the minimal required field set per entity type.
var requiredFieldsByType = map[id.EntityType][]string{
	id.EntityTypePerson:           {"name", "type"},
	id.EntityTypeCompany:          {"name", "type", "phone", "email"},
	id.EntityTypeEmergencyService: {"name", "type", "phone"},
	id.EntityTypeInfrastructure:   {"name", "type"},
}

// requiredFieldsByCategory is the stricter field set per category.
var requiredFieldsByCategory = map[id.EntityCategory][]string{
	id.CategorySyndic:          {"name", "phone", "email"},
	id.CategoryAdministrator:   {"name", "phone", "email", "contact_person"},
	id.CategoryRemoteConcierge: {"name", "phone", "email"},
	id.CategoryFireDepartment:  {"name", "phone", "emergency_phone"},
	id.CategoryPolice:          {"name", "phone", "emergency_phone"},
	id.CategoryAmbulance:       {"name", "phone", "emergency_phone"},
}

// MissingFields returns the required fields the entity does not satisfy, in
// rule-table order with category additions after type requirements. An empty
// result means the entity is complete.
func MissingFields(e *Entity) []string {
	var missing []string
	seen := make(map[string]bool)

	for _, field := range requiredFieldsByType[e.Type] {
		if !e.HasField(field) {
			missing = append(missing, field)
			seen[field] = true
		}
	}

	if e.Category != nil {
		for _, field := range requiredFieldsByCategory[*e.Category] {
			if seen[field] {
				continue
			}
			if !e.HasField(field) {
				missing = append(missing, field)
				seen[field] = true
			}
		}
	}

	return missing
}

// IsComplete reports whether the entity satisfies all of its required-field
// rules.
func IsComplete(e *Entity) bool {
	return len(MissingFields(e)) == 0
}
