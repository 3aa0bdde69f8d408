// Package cache provides Redis-backed read caches for hot storefront queries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/infrastructure/config"
)

// ErrCacheMiss is returned when the requested key is not cached
var ErrCacheMiss = errors.New("cache miss")

const (
	categoryTreeKey = "catalog:categories:active"
	defaultCacheTTL = 5 * time.Minute
)

// NewRedisClient connects a Redis client from configuration
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisCatalogCache caches the active category listing, the hottest query on
// the storefront. Writes to categories invalidate the whole listing; it is
// small and cheap to rebuild.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCatalogCache creates a catalog cache over an existing client
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCatalogCache{client: client, ttl: ttl}
}

// GetCategories returns the cached active category listing, or ErrCacheMiss
func (c *RedisCatalogCache) GetCategories(ctx context.Context) ([]catalog.Category, error) {
	payload, err := c.client.Get(ctx, categoryTreeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read category cache: %w", err)
	}

	var categories []catalog.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		// A corrupt entry behaves like a miss; the caller rebuilds it.
		return nil, ErrCacheMiss
	}
	return categories, nil
}

// SetCategories stores the active category listing
func (c *RedisCatalogCache) SetCategories(ctx context.Context, categories []catalog.Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode category cache: %w", err)
	}
	if err := c.client.Set(ctx, categoryTreeKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write category cache: %w", err)
	}
	return nil
}

// InvalidateCategories drops the cached listing after a category write
func (c *RedisCatalogCache) InvalidateCategories(ctx context.Context) error {
	if err := c.client.Del(ctx, categoryTreeKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate category cache: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}
