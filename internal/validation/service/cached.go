package service

import (
	"context"

	"condogov/internal/validation"
)

// Validator is what callers of entity validation depend on; both the plain
// service and its cached wrapper satisfy it.
type Validator interface {
	ValidateEntities(ctx context.Context, names []string) (*validation.Result, error)
	GetMissingEntities(ctx context.Context, names []string) ([]string, error)
	GetIncompleteEntities(ctx context.Context, names []string) ([]validation.EntityIssue, error)
}

// Cached decorates the validator with a Redis result cache. The validator
// itself stays a pure read; caching lives entirely in this wrapper.
type Cached struct {
	inner *Service
	cache *validation.Cache
}

func NewCached(inner *Service, cache *validation.Cache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) ValidateEntities(ctx context.Context, names []string) (*validation.Result, error) {
	if result := c.cache.Get(ctx, names); result != nil {
		return result, nil
	}
	result, err := c.inner.ValidateEntities(ctx, names)
	if err != nil {
		return nil, err
	}
	c.cache.Put(ctx, names, result)
	return result, nil
}

func (c *Cached) GetMissingEntities(ctx context.Context, names []string) ([]string, error) {
	result, err := c.ValidateEntities(ctx, names)
	if err != nil {
		return nil, err
	}
	return result.MissingEntities, nil
}

func (c *Cached) GetIncompleteEntities(ctx context.Context, names []string) ([]validation.EntityIssue, error) {
	result, err := c.ValidateEntities(ctx, names)
	if err != nil {
		return nil, err
	}
	return result.IncompleteEntities, nil
}
