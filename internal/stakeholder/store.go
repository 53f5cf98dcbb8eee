package stakeholder

import (
	"context"

	id "condogov/pkg/domain"
)

// Store is the durable storage for stakeholders.
type Store interface {
	Create(ctx context.Context, st *Stakeholder) error
	FindByID(ctx context.Context, stakeholderID id.StakeholderID) (*Stakeholder, error)
	ListActive(ctx context.Context) ([]*Stakeholder, error)
	Update(ctx context.Context, st *Stakeholder) error
	Deactivate(ctx context.Context, stakeholderID id.StakeholderID) error
}
