package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"bloghub/pkg/helpers"
)

// listingKey is the single logical key for the cached blog listing.
// Any successful write to any post deletes it.
const listingKey = "blogs:all"

// ListingCache stores the serialized blog listing in Redis with a short TTL.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

func (c *ListingCache) Get(ctx context.Context) (json.RawMessage, bool, error) {
	var payload json.RawMessage
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, listingKey, &payload)
	if err != nil || !ok {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *ListingCache) Set(ctx context.Context, payload json.RawMessage) error {
	return helpers.RedisSetJSON(ctx, c.rdb, listingKey, payload, c.ttl)
}

func (c *ListingCache) Invalidate(ctx context.Context) error {
	return helpers.RedisDel(ctx, c.rdb, listingKey)
}
