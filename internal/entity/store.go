package entity

import (
	"context"

	id "condogov/pkg/domain"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Type     id.EntityType
	Category id.EntityCategory
	Page     int
	PageSize int
}

// Store is the durable record storage for entities. Implementations must
// treat deactivated entities as absent in the ByNames/active lookups.
type Store interface {
	Create(ctx context.Context, e *Entity) error
	Update(ctx context.Context, e *Entity) error
	FindByID(ctx context.Context, entityID id.EntityID) (*Entity, error)
	// FindActiveByNames resolves a batch of names against active entities
	// only. Names with no active match are simply absent from the result.
	FindActiveByNames(ctx context.Context, names []string) (map[string]*Entity, error)
	// ListActive returns every active entity.
	ListActive(ctx context.Context) ([]*Entity, error)
	// List returns a filtered page of active entities plus the total count.
	List(ctx context.Context, filter ListFilter) ([]*Entity, int, error)
	// Deactivate soft-deletes; the record stays for history.
	Deactivate(ctx context.Context, entityID id.EntityID) error
}
