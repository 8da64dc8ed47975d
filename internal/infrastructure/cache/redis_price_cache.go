package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/pricing"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
	defaultPriceTTL      = 5 * time.Minute
	defaultZoneTTL       = 30 * time.Minute
)

// RedisConfig holds the Redis connection settings the cache needs
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisPriceCache implements pricing.PriceCache using Redis. Breakdowns and
// zones are stored as JSON; tenant invalidation walks the tenant's key
// prefix with SCAN to avoid blocking Redis with KEYS.
type RedisPriceCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	priceTTL   time.Duration
	zoneTTL    time.Duration
	logger     *zap.Logger
}

// RedisPriceCacheOption is a functional option for configuring the cache
type RedisPriceCacheOption func(*RedisPriceCache)

// WithRedisPriceTTL sets the default TTL for cached breakdowns. Keep it
// short: prices must reflect near-real-time rate card activations.
func WithRedisPriceTTL(ttl time.Duration) RedisPriceCacheOption {
	return func(c *RedisPriceCache) {
		c.priceTTL = ttl
	}
}

// WithRedisZoneTTL sets the default TTL for cached route zones
func WithRedisZoneTTL(ttl time.Duration) RedisPriceCacheOption {
	return func(c *RedisPriceCache) {
		c.zoneTTL = ttl
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisPriceCacheOption {
	return func(c *RedisPriceCache) {
		c.logger = logger
	}
}

// NewRedisPriceCache creates a new Redis-based price cache
func NewRedisPriceCache(cfg RedisConfig, opts ...RedisPriceCacheOption) (*RedisPriceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisPriceCache{
		client:     client,
		ownsClient: true,
		priceTTL:   defaultPriceTTL,
		zoneTTL:    defaultZoneTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisPriceCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisPriceCacheWithClient(client *redis.Client, opts ...RedisPriceCacheOption) *RedisPriceCache {
	cache := &RedisPriceCache{
		client:     client,
		ownsClient: false,
		priceTTL:   defaultPriceTTL,
		zoneTTL:    defaultZoneTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// GetBreakdown retrieves a cached breakdown, nil on miss
func (c *RedisPriceCache) GetBreakdown(ctx context.Context, key pricing.CacheKey) (*pricing.Breakdown, error) {
	cacheKey := key.String()

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for breakdown", zap.String("key", cacheKey))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get breakdown from cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get breakdown from cache: %w", err)
	}

	var breakdown pricing.Breakdown
	if err := json.Unmarshal(data, &breakdown); err != nil {
		c.logger.Error("Failed to unmarshal cached breakdown",
			zap.String("key", cacheKey),
			zap.Error(err))
		// Drop corrupted cache entries
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
	}

	c.logger.Debug("Cache hit for breakdown", zap.String("key", cacheKey))
	return &breakdown, nil
}

// SetBreakdown caches a breakdown under the composite pricing key
func (c *RedisPriceCache) SetBreakdown(ctx context.Context, key pricing.CacheKey, breakdown *pricing.Breakdown, ttl time.Duration) error {
	if breakdown == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.priceTTL
	}

	cacheKey := key.String()

	data, err := json.Marshal(breakdown)
	if err != nil {
		c.logger.Error("Failed to marshal breakdown",
			zap.String("key", cacheKey),
			zap.Error(err))
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set breakdown in cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return fmt.Errorf("failed to set breakdown in cache: %w", err)
	}

	c.logger.Debug("Cached breakdown",
		zap.String("key", cacheKey),
		zap.Duration("ttl", ttl))
	return nil
}

// GetZone retrieves a cached route zone, "" on miss
func (c *RedisPriceCache) GetZone(ctx context.Context, originPostal, destPostal string) (geography.ZoneCode, error) {
	cacheKey := pricing.ZoneKey(originPostal, destPostal)

	value, err := c.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for zone", zap.String("key", cacheKey))
		return "", nil
	}
	if err != nil {
		c.logger.Error("Failed to get zone from cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return "", fmt.Errorf("failed to get zone from cache: %w", err)
	}

	zone := geography.ZoneCode(value)
	if !zone.IsValid() {
		_ = c.client.Del(ctx, cacheKey)
		return "", fmt.Errorf("corrupt cached zone %q", value)
	}

	c.logger.Debug("Cache hit for zone", zap.String("key", cacheKey))
	return zone, nil
}

// SetZone caches a resolved route zone
func (c *RedisPriceCache) SetZone(ctx context.Context, originPostal, destPostal string, zone geography.ZoneCode, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.zoneTTL
	}

	cacheKey := pricing.ZoneKey(originPostal, destPostal)

	if err := c.client.Set(ctx, cacheKey, string(zone), ttl).Err(); err != nil {
		c.logger.Error("Failed to set zone in cache",
			zap.String("key", cacheKey),
			zap.Error(err))
		return fmt.Errorf("failed to set zone in cache: %w", err)
	}

	c.logger.Debug("Cached zone",
		zap.String("key", cacheKey),
		zap.String("zone", string(zone)),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateTenant removes every cached price for the tenant
func (c *RedisPriceCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := pricing.TenantPrefix(tenantID) + "*"

	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan tenant price keys",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete tenant price keys",
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated tenant price cache",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases the Redis client if this cache owns it
func (c *RedisPriceCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisPriceCache implements pricing.PriceCache
var _ pricing.PriceCache = (*RedisPriceCache)(nil)
