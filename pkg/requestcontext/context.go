// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services read them without
// importing net/http.
package requestcontext

import (
	"context"
	"time"

	id "condogov/pkg/domain"
)

type (
	stakeholderIDKey struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyStakeholderID = stakeholderIDKey{}
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// StakeholderID retrieves the authenticated stakeholder ID from the context.
// Returns the zero value (nil UUID) if not set.
func StakeholderID(ctx context.Context) id.StakeholderID {
	if sid, ok := ctx.Value(ContextKeyStakeholderID).(id.StakeholderID); ok {
		return sid
	}
	return id.StakeholderID{}
}

// WithStakeholderID injects a stakeholder ID into the context.
func WithStakeholderID(ctx context.Context, sid id.StakeholderID) context.Context {
	return context.WithValue(ctx, ContextKeyStakeholderID, sid)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain and for batch
// operations that need a consistent timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
