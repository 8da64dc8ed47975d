package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/pricing"
	"go.uber.org/zap"
)

// l1TTLDivisor keeps L1 entries shorter-lived than their L2 source so a
// multi-instance deployment converges on invalidation within the L1 window
const l1TTLDivisor = 5

// TieredPriceCache layers the in-memory L1 cache over the Redis L2 cache.
// Reads go L1 then L2, promoting L2 hits into L1; writes and invalidation
// go to both tiers. An L2 failure degrades to L1-only operation instead of
// surfacing an error.
type TieredPriceCache struct {
	l1     *InMemoryPriceCache
	l2     *RedisPriceCache
	logger *zap.Logger
}

// NewTieredPriceCache creates a tiered price cache
func NewTieredPriceCache(l1 *InMemoryPriceCache, l2 *RedisPriceCache, logger *zap.Logger) *TieredPriceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredPriceCache{l1: l1, l2: l2, logger: logger}
}

// GetBreakdown reads through L1 then L2
func (c *TieredPriceCache) GetBreakdown(ctx context.Context, key pricing.CacheKey) (*pricing.Breakdown, error) {
	if breakdown, err := c.l1.GetBreakdown(ctx, key); err == nil && breakdown != nil {
		return breakdown, nil
	}

	breakdown, err := c.l2.GetBreakdown(ctx, key)
	if err != nil {
		c.logger.Warn("L2 breakdown read failed, serving L1-only", zap.Error(err))
		return nil, nil
	}
	if breakdown != nil {
		_ = c.l1.SetBreakdown(ctx, key, breakdown, c.l1.priceTTL/l1TTLDivisor)
	}
	return breakdown, nil
}

// SetBreakdown writes to both tiers
func (c *TieredPriceCache) SetBreakdown(ctx context.Context, key pricing.CacheKey, breakdown *pricing.Breakdown, ttl time.Duration) error {
	l1TTL := ttl
	if l1TTL != 0 {
		l1TTL = ttl / l1TTLDivisor
	}
	_ = c.l1.SetBreakdown(ctx, key, breakdown, l1TTL)
	if err := c.l2.SetBreakdown(ctx, key, breakdown, ttl); err != nil {
		c.logger.Warn("L2 breakdown write failed", zap.Error(err))
	}
	return nil
}

// GetZone reads through L1 then L2
func (c *TieredPriceCache) GetZone(ctx context.Context, originPostal, destPostal string) (geography.ZoneCode, error) {
	if zone, err := c.l1.GetZone(ctx, originPostal, destPostal); err == nil && zone != "" {
		return zone, nil
	}

	zone, err := c.l2.GetZone(ctx, originPostal, destPostal)
	if err != nil {
		c.logger.Warn("L2 zone read failed, serving L1-only", zap.Error(err))
		return "", nil
	}
	if zone != "" {
		_ = c.l1.SetZone(ctx, originPostal, destPostal, zone, c.l1.zoneTTL/l1TTLDivisor)
	}
	return zone, nil
}

// SetZone writes to both tiers
func (c *TieredPriceCache) SetZone(ctx context.Context, originPostal, destPostal string, zone geography.ZoneCode, ttl time.Duration) error {
	l1TTL := ttl
	if l1TTL != 0 {
		l1TTL = ttl / l1TTLDivisor
	}
	_ = c.l1.SetZone(ctx, originPostal, destPostal, zone, l1TTL)
	if err := c.l2.SetZone(ctx, originPostal, destPostal, zone, ttl); err != nil {
		c.logger.Warn("L2 zone write failed", zap.Error(err))
	}
	return nil
}

// InvalidateTenant evicts the tenant's prices from both tiers. The L2
// eviction error is surfaced so promotion can log degraded invalidation.
func (c *TieredPriceCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	_ = c.l1.InvalidateTenant(ctx, tenantID)
	return c.l2.InvalidateTenant(ctx, tenantID)
}

// Close releases both tiers
func (c *TieredPriceCache) Close() error {
	_ = c.l1.Close()
	return c.l2.Close()
}

// Ensure TieredPriceCache implements pricing.PriceCache
var _ pricing.PriceCache = (*TieredPriceCache)(nil)
