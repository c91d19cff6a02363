package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/ports"
)

const defaultCacheTTL = time.Minute

// ResourceCache keeps recently read resources in Redis.
// Key format: resource:<id>
type ResourceCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.ResourceCache = (*ResourceCache)(nil)

// NewResourceCache wraps client. A non-positive ttl falls back to one minute.
func NewResourceCache(client *redis.Client, ttl time.Duration) *ResourceCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ResourceCache{client: client, ttl: ttl}
}

// Get returns the cached resource, or nil without error on a miss.
func (c *ResourceCache) Get(ctx context.Context, id int64) (*domain.Resource, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resource cache get: %w", err)
	}

	var res domain.Resource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("resource cache decode: %w", err)
	}
	return &res, nil
}

// Set stores res until the cache TTL expires.
func (c *ResourceCache) Set(ctx context.Context, res *domain.Resource) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("resource cache encode: %w", err)
	}
	return c.client.Set(ctx, key(res.ID), raw, c.ttl).Err()
}

// Ping reports whether Redis is reachable.
func (c *ResourceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(id int64) string {
	return fmt.Sprintf("resource:%d", id)
}
