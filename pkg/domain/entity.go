package domain

import (
	dErrors "condogov/pkg/domain-errors"
)

// EntityType classifies referenced real-world actors and assets.
type EntityType string

const (
	EntityTypePerson           EntityType = "pessoa"
	EntityTypeCompany          EntityType = "empresa"
	EntityTypeEmergencyService EntityType = "servico_emergencia"
	EntityTypeInfrastructure   EntityType = "infraestrutura"
)

var validEntityTypes = map[EntityType]bool{
	EntityTypePerson:           true,
	EntityTypeCompany:          true,
	EntityTypeEmergencyService: true,
	EntityTypeInfrastructure:   true,
}

// ParseEntityType constructs an EntityType from external input.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !validEntityTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid entity type: "+s)
	}
	return t, nil
}

func (t EntityType) IsValid() bool  { return validEntityTypes[t] }
func (t EntityType) String() string { return string(t) }

// EntityCategory is the fine-grained subtype vocabulary. Categories carry
// stricter required-field rules than their parent type.
type EntityCategory string

const (
	// People.
	CategorySyndic        EntityCategory = "sindico"
	CategoryCouncilMember EntityCategory = "conselheiro"
	CategoryAdministrator EntityCategory = "administradora"
	CategoryJanitor       EntityCategory = "faxineiro"
	CategoryResident      EntityCategory = "morador"

	// Companies.
	CategoryRemoteConcierge     EntityCategory = "portaria_online"
	CategorySecurity            EntityCategory = "seguranca"
	CategoryElevatorMaintenance EntityCategory = "manutencao_elevador"
	CategoryGardening           EntityCategory = "jardinagem"
	CategoryPestControl         EntityCategory = "dedetizacao"
	CategoryMaintenance         EntityCategory = "manutencao"
	CategoryGasSupplier         EntityCategory = "gas"
	CategoryPowerSupplier       EntityCategory = "energia"
	CategoryOtherSupplier       EntityCategory = "outro_fornecedor"

	// Emergency services.
	CategoryFireDepartment EntityCategory = "bombeiros"
	CategoryPolice         EntityCategory = "policia"
	CategoryAmbulance      EntityCategory = "samu"

	// Infrastructure.
	CategoryGate            EntityCategory = "portao"
	CategoryElevator        EntityCategory = "elevador"
	CategoryBiometricSystem EntityCategory = "sistema_biometria"
	CategoryCameraSystem    EntityCategory = "sistema_cameras"
)

var validEntityCategories = map[EntityCategory]bool{
	CategorySyndic:              true,
	CategoryCouncilMember:       true,
	CategoryAdministrator:       true,
	CategoryJanitor:             true,
	CategoryResident:            true,
	CategoryRemoteConcierge:     true,
	CategorySecurity:            true,
	CategoryElevatorMaintenance: true,
	CategoryGardening:           true,
	CategoryPestControl:         true,
	CategoryMaintenance:         true,
	CategoryGasSupplier:         true,
	CategoryPowerSupplier:       true,
	CategoryOtherSupplier:       true,
	CategoryFireDepartment:      true,
	CategoryPolice:              true,
	CategoryAmbulance:           true,
	CategoryGate:                true,
	CategoryElevator:            true,
	CategoryBiometricSystem:     true,
	CategoryCameraSystem:        true,
}

// ParseEntityCategory constructs an EntityCategory from external input.
// The empty string is not a valid category; absence is modeled with a nil
// pointer on the entity record.
func ParseEntityCategory(s string) (EntityCategory, error) {
	c := EntityCategory(s)
	if !validEntityCategories[c] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid entity category: "+s)
	}
	return c, nil
}

func (c EntityCategory) IsValid() bool  { return validEntityCategories[c] }
func (c EntityCategory) String() string { return string(c) }
