package audit

import (
	"context"
	"log/slog"

	id "condogov/pkg/domain"
	"condogov/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. Publishing
// never fails a caller's operation; append errors are logged and dropped.
type Publisher struct {
	store  Store
	logger *slog.Logger
	inbox  chan Event
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// WithAsyncBuffer switches the publisher to buffered delivery; a Worker must
// drain the returned publisher via Run.
func (p *Publisher) WithAsyncBuffer(size int) *Publisher {
	p.inbox = make(chan Event, size)
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) {
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if p.inbox != nil {
		select {
		case p.inbox <- base:
		default:
			p.logger.Warn("audit buffer full, dropping event", "action", base.Action)
		}
		return
	}
	if err := p.store.Append(ctx, base); err != nil {
		p.logger.Error("audit append failed", "action", base.Action, "error", err)
	}
}

// Run consumes buffered events until ctx is cancelled. It is a no-op for a
// synchronous publisher.
func (p *Publisher) Run(ctx context.Context) error {
	if p.inbox == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-p.inbox:
			if err := p.store.Append(ctx, event); err != nil {
				p.logger.Error("audit append failed", "action", event.Action, "error", err)
			}
		}
	}
}

func (p *Publisher) List(ctx context.Context, processID id.ProcessID) ([]Event, error) {
	return p.store.ListByProcess(ctx, processID)
}
