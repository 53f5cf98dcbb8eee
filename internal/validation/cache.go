package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "validation:result:"

// Cache stores validation results in Redis under a digest of the requested
// names. A nil cache is a valid no-op so deployments without Redis skip
// caching entirely.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached result for the given names, or nil on a miss.
// Cache failures read as misses; validation never fails because Redis did.
func (c *Cache) Get(ctx context.Context, names []string) *Result {
	if c == nil {
		return nil
	}
	payload, err := c.client.Get(ctx, cacheKey(names)).Bytes()
	if err != nil {
		return nil
	}
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil
	}
	return &result
}

func (c *Cache) Put(ctx context.Context, names []string, result *Result) {
	if c == nil || result == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(names), payload, c.ttl)
}

// Invalidate drops every cached validation result. Called when entity
// records change, since any of them may affect any cached outcome.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// cacheKey is order-sensitive on purpose: the result's missing list
// preserves caller ordering, so differently ordered requests are different
// results.
func cacheKey(names []string) string {
	sum := sha256.Sum256([]byte(strings.Join(names, "\x00")))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
