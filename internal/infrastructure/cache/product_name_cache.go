// Package cache provides Redis-backed caches for hot lookup paths.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/mfg/backend/internal/application/catalog"
	infraconfig "github.com/mfg/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultNameCacheTTL = 10 * time.Minute

// RedisProductNameCache caches product name to id lookups in Redis.
// Entries are advisory: the lookup path re-checks the database when a
// cached id no longer resolves.
type RedisProductNameCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisProductNameCacheOption is a functional option for configuring the cache
type RedisProductNameCacheOption func(*RedisProductNameCache)

// WithCacheTTL sets the entry time to live
func WithCacheTTL(ttl time.Duration) RedisProductNameCacheOption {
	return func(c *RedisProductNameCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisProductNameCacheOption {
	return func(c *RedisProductNameCache) {
		c.logger = logger
	}
}

// NewRedisProductNameCache creates a cache with its own Redis client
func NewRedisProductNameCache(cfg *infraconfig.RedisConfig, opts ...RedisProductNameCacheOption) (*RedisProductNameCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisProductNameCache{
		client:     client,
		ownsClient: true,
		ttl:        cfg.NameCacheTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	if cache.ttl <= 0 {
		cache.ttl = defaultNameCacheTTL
	}

	return cache, nil
}

// NewRedisProductNameCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisProductNameCacheWithClient(client *redis.Client, opts ...RedisProductNameCacheOption) *RedisProductNameCache {
	cache := &RedisProductNameCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultNameCacheTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	if cache.ttl <= 0 {
		cache.ttl = defaultNameCacheTTL
	}

	return cache
}

// nameCacheKey generates the cache key for a product name.
// Names are matched case-insensitively, so the key folds case too.
func (c *RedisProductNameCache) nameCacheKey(name string) string {
	return "product:name:" + strings.ToLower(name)
}

// GetIDByName retrieves a cached product id for a name
func (c *RedisProductNameCache) GetIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	cacheKey := c.nameCacheKey(name)

	value, err := c.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for product name", zap.String("name", name))
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to get product id from cache: %w", err)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		// Corrupted entry, drop it and report a miss
		_ = c.client.Del(ctx, cacheKey)
		c.logger.Warn("Dropped corrupted product name cache entry",
			zap.String("name", name),
			zap.String("value", value))
		return uuid.Nil, false, nil
	}

	c.logger.Debug("Cache hit for product name", zap.String("name", name))
	return id, true, nil
}

// SetIDByName stores a product id under its name
func (c *RedisProductNameCache) SetIDByName(ctx context.Context, name string, id uuid.UUID) error {
	if err := c.client.Set(ctx, c.nameCacheKey(name), id.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set product id in cache: %w", err)
	}
	return nil
}

// Invalidate removes the cached entry for a name
func (c *RedisProductNameCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, c.nameCacheKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product name cache: %w", err)
	}
	return nil
}

// Close releases the Redis client if this cache owns it
func (c *RedisProductNameCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ catalogapp.ProductNameCache = (*RedisProductNameCache)(nil)
