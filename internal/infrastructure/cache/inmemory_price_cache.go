package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/pricing"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryPriceCache implements pricing.PriceCache using in-memory storage.
// It serves as the L1 tier in front of Redis, and as the whole cache for
// single-instance deployments and tests.
type InMemoryPriceCache struct {
	breakdowns sync.Map // map[string]*cacheEntry[pricing.Breakdown]
	zones      sync.Map // map[string]*cacheEntry[geography.ZoneCode]
	priceTTL   time.Duration
	zoneTTL    time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryPriceCacheOption is a functional option for configuring the cache
type InMemoryPriceCacheOption func(*InMemoryPriceCache)

// WithInMemoryPriceTTL sets the default TTL for cached breakdowns
func WithInMemoryPriceTTL(ttl time.Duration) InMemoryPriceCacheOption {
	return func(c *InMemoryPriceCache) {
		c.priceTTL = ttl
	}
}

// WithInMemoryZoneTTL sets the default TTL for cached zones
func WithInMemoryZoneTTL(ttl time.Duration) InMemoryPriceCacheOption {
	return func(c *InMemoryPriceCache) {
		c.zoneTTL = ttl
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryPriceCacheOption {
	return func(c *InMemoryPriceCache) {
		c.logger = logger
	}
}

// NewInMemoryPriceCache creates a new in-memory price cache
func NewInMemoryPriceCache(opts ...InMemoryPriceCacheOption) *InMemoryPriceCache {
	cache := &InMemoryPriceCache{
		priceTTL: defaultPriceTTL,
		zoneTTL:  defaultZoneTTL,
		logger:   zap.NewNop(),
		stopCh:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Background cleanup of expired entries
	go cache.cleanupExpired()

	return cache
}

// GetBreakdown retrieves a cached breakdown, nil on miss
func (c *InMemoryPriceCache) GetBreakdown(ctx context.Context, key pricing.CacheKey) (*pricing.Breakdown, error) {
	cacheKey := key.String()

	if value, ok := c.breakdowns.Load(cacheKey); ok {
		entry := value.(*cacheEntry[pricing.Breakdown])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for breakdown", zap.String("key", cacheKey))
			return entry.value, nil
		}
		c.breakdowns.Delete(cacheKey)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for breakdown", zap.String("key", cacheKey))
	return nil, nil
}

// SetBreakdown stores a breakdown in cache
func (c *InMemoryPriceCache) SetBreakdown(ctx context.Context, key pricing.CacheKey, breakdown *pricing.Breakdown, ttl time.Duration) error {
	if breakdown == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.priceTTL
	}

	c.breakdowns.Store(key.String(), &cacheEntry[pricing.Breakdown]{
		value:     breakdown,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// GetZone retrieves a cached route zone, "" on miss
func (c *InMemoryPriceCache) GetZone(ctx context.Context, originPostal, destPostal string) (geography.ZoneCode, error) {
	cacheKey := pricing.ZoneKey(originPostal, destPostal)

	if value, ok := c.zones.Load(cacheKey); ok {
		entry := value.(*cacheEntry[geography.ZoneCode])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return *entry.value, nil
		}
		c.zones.Delete(cacheKey)
	}

	atomic.AddInt64(&c.misses, 1)
	return "", nil
}

// SetZone stores a resolved route zone in cache
func (c *InMemoryPriceCache) SetZone(ctx context.Context, originPostal, destPostal string, zone geography.ZoneCode, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.zoneTTL
	}

	c.zones.Store(pricing.ZoneKey(originPostal, destPostal), &cacheEntry[geography.ZoneCode]{
		value:     &zone,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateTenant removes every cached price for the tenant
func (c *InMemoryPriceCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	prefix := pricing.TenantPrefix(tenantID)
	var removed int

	c.breakdowns.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.breakdowns.Delete(key)
			removed++
		}
		return true
	})

	c.logger.Debug("Invalidated tenant prices in L1 cache",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("removed", removed))
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryPriceCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryPriceCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache
func (c *InMemoryPriceCache) Count() (breakdowns, zones int) {
	c.breakdowns.Range(func(_, _ any) bool {
		breakdowns++
		return true
	})
	c.zones.Range(func(_, _ any) bool {
		zones++
		return true
	})
	return breakdowns, zones
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryPriceCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

// doCleanup removes expired entries from both maps
func (c *InMemoryPriceCache) doCleanup() {
	var removed int

	c.breakdowns.Range(func(key, value any) bool {
		if value.(*cacheEntry[pricing.Breakdown]).isExpired() {
			c.breakdowns.Delete(key)
			removed++
		}
		return true
	})

	c.zones.Range(func(key, value any) bool {
		if value.(*cacheEntry[geography.ZoneCode]).isExpired() {
			c.zones.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired L1 cache entries", zap.Int("removed", removed))
	}
}

// Ensure InMemoryPriceCache implements pricing.PriceCache
var _ pricing.PriceCache = (*InMemoryPriceCache)(nil)
