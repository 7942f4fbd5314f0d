package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cafeice/shop-api/internal/api/metrics"
	"github.com/cafeice/shop-api/internal/core/domain"
)

const (
	categoryListKey        = "cache:categories:list"
	defaultCategoryListTTL = 5 * time.Minute
)

// CategoryCache stores the category list as a single JSON value.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a CategoryCache wrapping the given Redis client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = defaultCategoryListTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Get reports a miss as (nil, false, nil).
func (c *CategoryCache) Get(ctx context.Context) ([]*domain.Category, bool, error) {
	raw, err := c.client.Get(ctx, categoryListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CategoryCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("category cache get: %w", err)
	}

	var out []*domain.Category
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("category cache decode: %w", err)
	}
	metrics.CategoryCacheTotal.WithLabelValues("hit").Inc()
	return out, true, nil
}

func (c *CategoryCache) Set(ctx context.Context, categories []*domain.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	return c.client.Set(ctx, categoryListKey, raw, c.ttl).Err()
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoryListKey).Err()
}
