package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shopspring/decimal"
)

// DefaultWeightBucketKg is the default bucket width used to discretize
// continuous parcel weights for cache keys. Bucketing bounds cache
// cardinality while keeping lookups exact for typical parcel weights.
var DefaultWeightBucketKg = decimal.RequireFromString("0.5")

// WeightBucket maps a continuous weight onto its bucket label: the
// inclusive upper bound of the bucket the weight falls in. With the default
// 0.5kg width, 0.3kg and 0.5kg share bucket "0.5" and 0.51kg lands in "1".
func WeightBucket(weightKg, bucketKg decimal.Decimal) string {
	if !bucketKg.IsPositive() {
		bucketKg = DefaultWeightBucketKg
	}
	buckets := weightKg.Div(bucketKg).Ceil()
	if buckets.IsZero() {
		buckets = decimal.NewFromInt(1)
	}
	return buckets.Mul(bucketKg).String()
}

// CacheKey is the composite key for cached price breakdowns
type CacheKey struct {
	TenantID     uuid.UUID
	Carrier      string
	ServiceType  string
	Zone         geography.ZoneCode
	WeightBucket string
	PaymentMode  PaymentMode
	CustomerID   uuid.UUID // uuid.Nil when no customer override is in play
}

// String renders the key under the tenant's cache prefix
func (k CacheKey) String() string {
	key := fmt.Sprintf("price:%s:%s:%s:%s:%s:%s", k.TenantID, k.Carrier, k.ServiceType, k.Zone, k.WeightBucket, k.PaymentMode)
	if k.CustomerID != uuid.Nil {
		key += ":" + k.CustomerID.String()
	}
	return key
}

// TenantPrefix returns the invalidation prefix covering every cached price
// for a tenant
func TenantPrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("price:%s:", tenantID)
}

// ZoneKey is the cache key for resolved route zones. Zone classification is
// tenant-independent, so the key carries only the route.
func ZoneKey(originPostal, destPostal string) string {
	return fmt.Sprintf("zone:%s:%s", originPostal, destPostal)
}

// PriceCache is the shared mutable structure on the pricing hot path. All
// mutation goes through Set/InvalidateTenant; nothing bypasses it.
//
// Implementations must be safe for concurrent use. A miss is (nil, nil);
// an error means the backend is unreachable, which callers treat as a miss
// (degraded mode) because pricing correctness never depends on cache
// availability.
type PriceCache interface {
	// GetBreakdown retrieves a cached breakdown, nil on miss
	GetBreakdown(ctx context.Context, key CacheKey) (*Breakdown, error)

	// SetBreakdown caches a breakdown. A zero ttl selects the
	// implementation default.
	SetBreakdown(ctx context.Context, key CacheKey, breakdown *Breakdown, ttl time.Duration) error

	// GetZone retrieves a cached route zone, "" on miss
	GetZone(ctx context.Context, originPostal, destPostal string) (geography.ZoneCode, error)

	// SetZone caches a resolved route zone
	SetZone(ctx context.Context, originPostal, destPostal string, zone geography.ZoneCode, ttl time.Duration) error

	// InvalidateTenant evicts every cached price for the tenant. Called by
	// rate card promotion before it returns, so no stale price survives a
	// promotion (read-your-writes for the tenant that changed rates).
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	// Close releases any resources held by the cache
	Close() error
}
