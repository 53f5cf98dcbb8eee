package service

import (
	"context"
	"strings"
	"time"

	"condogov/internal/entity"
	"condogov/internal/platform/metrics"
	"condogov/internal/validation"
	dErrors "condogov/pkg/domain-errors"
	"condogov/pkg/requestcontext"
)

// Service checks entity references against the registry's required-field
// rules. Validation is a pure read; nothing here mutates state.
type Service struct {
	entities entity.Store
	ttl      time.Duration
	metrics  *metrics.Metrics
}

func NewService(entities entity.Store, ttl time.Duration, m *metrics.Metrics) *Service {
	return &Service{entities: entities, ttl: ttl, metrics: m}
}

// ValidateEntities resolves the given names against active entities in one
// batched lookup and checks each resolved entity's completeness. Missing
// names keep the caller's ordering, not the store's.
func (s *Service) ValidateEntities(ctx context.Context, names []string) (*validation.Result, error) {
	s.metrics.IncrementValidationRuns()
	now := requestcontext.Now(ctx)
	result := &validation.Result{
		Valid:              true,
		MissingEntities:    []string{},
		IncompleteEntities: []validation.EntityIssue{},
		ExpiresAt:          now.Add(s.ttl),
	}
	if len(names) == 0 {
		return result, nil
	}

	lookup := make([]string, 0, len(names))
	for _, name := range names {
		// A blank reference can never resolve; skip the lookup, it still
		// comes out as missing below.
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			lookup = append(lookup, trimmed)
		}
	}

	found, err := s.entities.FindActiveByNames(ctx, lookup)
	if err != nil {
		s.metrics.IncrementValidationFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "entity lookup failed")
	}
	byName := make(map[string]*entity.Entity, len(found))
	for _, e := range found {
		byName[e.Name] = e
	}

	// Walk in caller order so missing names come out in the order given.
	for _, name := range names {
		e, ok := byName[strings.TrimSpace(name)]
		if !ok {
			result.MissingEntities = append(result.MissingEntities, name)
			continue
		}
		if fields := entity.MissingFields(e); len(fields) > 0 {
			result.IncompleteEntities = append(result.IncompleteEntities, validation.EntityIssue{
				Name:          e.Name,
				MissingFields: fields,
			})
		}
	}

	result.Valid = len(result.MissingEntities) == 0 && len(result.IncompleteEntities) == 0
	if !result.Valid {
		s.metrics.IncrementValidationFailures()
	}
	return result, nil
}

// GetMissingEntities returns only the names that do not resolve to an active
// entity.
func (s *Service) GetMissingEntities(ctx context.Context, names []string) ([]string, error) {
	result, err := s.ValidateEntities(ctx, names)
	if err != nil {
		return nil, err
	}
	return result.MissingEntities, nil
}

// GetIncompleteEntities returns only the resolved entities failing their
// required-field rules.
func (s *Service) GetIncompleteEntities(ctx context.Context, names []string) ([]validation.EntityIssue, error) {
	result, err := s.ValidateEntities(ctx, names)
	if err != nil {
		return nil, err
	}
	return result.IncompleteEntities, nil
}
