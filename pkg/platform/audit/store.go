package audit

import (
	"context"

	id "condogov/pkg/domain"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByProcess(ctx context.Context, processID id.ProcessID) ([]Event, error)
}
