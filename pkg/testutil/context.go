package testutil

import (
	"net/http"
	"time"

	id "condogov/pkg/domain"
	"condogov/pkg/requestcontext"
)

// WithStakeholder injects an authenticated stakeholder ID into the request
// context, simulating what the auth middleware does. Invalid IDs are ignored.
func WithStakeholder(req *http.Request, stakeholderID string) *http.Request {
	parsed, err := id.ParseStakeholderID(stakeholderID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithStakeholderID(req.Context(), parsed))
}

// WithRequestTime pins the request clock so handlers under test produce
// deterministic timestamps.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
