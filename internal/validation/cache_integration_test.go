//go:build integration

package validation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"condogov/internal/validation"
	"condogov/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *validation.Cache
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = validation.NewCache(s.redis.Client, time.Minute)
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CacheSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	names := []string{"Bombeiros", "Zelador"}
	result := &validation.Result{
		Valid:           false,
		MissingEntities: []string{"Zelador"},
		ExpiresAt:       time.Now().UTC().Truncate(time.Second).Add(time.Minute),
	}

	s.cache.Put(ctx, names, result)

	cached := s.cache.Get(ctx, names)
	s.Require().NotNil(cached)
	s.False(cached.Valid)
	s.Equal([]string{"Zelador"}, cached.MissingEntities)
	s.True(result.ExpiresAt.Equal(cached.ExpiresAt))
}

func (s *CacheSuite) TestGetMissOnUnknownNames() {
	s.Nil(s.cache.Get(context.Background(), []string{"Nunca Validado"}))
}

// Differently ordered requests produce differently ordered missing lists, so
// they must not share a cache entry.
func (s *CacheSuite) TestKeyIsOrderSensitive() {
	ctx := context.Background()
	s.cache.Put(ctx, []string{"A", "B"}, &validation.Result{Valid: true})

	s.NotNil(s.cache.Get(ctx, []string{"A", "B"}))
	s.Nil(s.cache.Get(ctx, []string{"B", "A"}))
}

func (s *CacheSuite) TestInvalidateDropsAllEntries() {
	ctx := context.Background()
	s.cache.Put(ctx, []string{"A"}, &validation.Result{Valid: true})
	s.cache.Put(ctx, []string{"B"}, &validation.Result{Valid: true})

	s.Require().NoError(s.cache.Invalidate(ctx))

	s.Nil(s.cache.Get(ctx, []string{"A"}))
	s.Nil(s.cache.Get(ctx, []string{"B"}))
}

func (s *CacheSuite) TestNilCacheIsNoOp() {
	ctx := context.Background()
	var nilCache *validation.Cache

	nilCache.Put(ctx, []string{"A"}, &validation.Result{Valid: true})
	s.Nil(nilCache.Get(ctx, []string{"A"}))
	s.NoError(nilCache.Invalidate(ctx))
}
