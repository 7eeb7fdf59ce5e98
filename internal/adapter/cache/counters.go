package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const countKeyPrefix = "apprv:qcount:"

// PendingCounts is a redis-backed TTL cache for per-queue pending counts.
// It bounds the per-kind count fan-out to once per TTL per queue; any redis
// failure degrades to a cache miss so dashboards never break on the cache.
type PendingCounts struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPendingCounts(rdb *redis.Client, ttl time.Duration) *PendingCounts {
	return &PendingCounts{rdb: rdb, ttl: ttl}
}

func (c *PendingCounts) Get(ctx context.Context, slug string) (int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := c.rdb.Get(ctx, countKeyPrefix+slug).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *PendingCounts) Set(ctx context.Context, slug string, count int64) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rdb.Set(ctx, countKeyPrefix+slug, count, c.ttl).Err(); err != nil {
		log.Printf("count cache: set %s failed: %v", slug, err)
	}
}
