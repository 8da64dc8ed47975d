package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/pricing"
)

// NoopPriceCache is the absent-cache passthrough: every read misses and
// every write is discarded. It lets the orchestrator run identical logic
// whether a cache backend is configured or not; pricing correctness never
// depends on cache availability.
type NoopPriceCache struct{}

// NewNoopPriceCache creates the passthrough cache
func NewNoopPriceCache() *NoopPriceCache {
	return &NoopPriceCache{}
}

// GetBreakdown always misses
func (NoopPriceCache) GetBreakdown(ctx context.Context, key pricing.CacheKey) (*pricing.Breakdown, error) {
	return nil, nil
}

// SetBreakdown discards the value
func (NoopPriceCache) SetBreakdown(ctx context.Context, key pricing.CacheKey, breakdown *pricing.Breakdown, ttl time.Duration) error {
	return nil
}

// GetZone always misses
func (NoopPriceCache) GetZone(ctx context.Context, originPostal, destPostal string) (geography.ZoneCode, error) {
	return "", nil
}

// SetZone discards the value
func (NoopPriceCache) SetZone(ctx context.Context, originPostal, destPostal string, zone geography.ZoneCode, ttl time.Duration) error {
	return nil
}

// InvalidateTenant has nothing to evict
func (NoopPriceCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return nil
}

// Close has nothing to release
func (NoopPriceCache) Close() error {
	return nil
}

// Ensure NoopPriceCache implements pricing.PriceCache
var _ pricing.PriceCache = (*NoopPriceCache)(nil)
