// internal/reviews/cache.go
package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedSource decorates a Source with a TTL-bounded Redis cache.
// The cache is explicit and injected, so there is no hidden cross-request
// state; eviction is Redis TTL.
type CachedSource struct {
	inner Source
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedSource(inner Source, rdb *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedSource) GetAggregateSentiment(ctx context.Context, manufacturer, model, category string) (Aggregate, error) {
	key := cacheKey(manufacturer, model, category)

	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var agg Aggregate
		if err := json.Unmarshal([]byte(val), &agg); err == nil {
			return agg, nil
		}
	}

	agg, err := c.inner.GetAggregateSentiment(ctx, manufacturer, model, category)
	if err != nil {
		return Aggregate{}, err
	}

	// Cache failures are invisible to callers; the lookup already succeeded.
	if data, err := json.Marshal(agg); err == nil {
		c.rdb.Set(ctx, key, data, c.ttl)
	}

	return agg, nil
}

func cacheKey(manufacturer, model, category string) string {
	return fmt.Sprintf("reviews:agg:%s:%s:%s",
		strings.ToLower(manufacturer), strings.ToLower(model), strings.ToLower(category))
}
