package cache

import (
	"fmt"
	"time"

	"github.com/shipstack/backend/internal/domain/pricing"
	"go.uber.org/zap"
)

// PriceCacheFactory creates price caches based on configuration
type PriceCacheFactory struct {
	redisConfig           RedisConfig
	priceTTL              time.Duration
	zoneTTL               time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PriceCacheFactoryOption is a functional option for configuring the factory
type PriceCacheFactoryOption func(*PriceCacheFactory)

// WithFactoryLogger sets the logger for the factory and the caches it builds
func WithFactoryLogger(logger *zap.Logger) PriceCacheFactoryOption {
	return func(f *PriceCacheFactory) {
		f.logger = logger
	}
}

// WithFactoryTTLs sets the breakdown and zone TTLs for built caches
func WithFactoryTTLs(priceTTL, zoneTTL time.Duration) PriceCacheFactoryOption {
	return func(f *PriceCacheFactory) {
		if priceTTL > 0 {
			f.priceTTL = priceTTL
		}
		if zoneTTL > 0 {
			f.zoneTTL = zoneTTL
		}
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PriceCacheFactoryOption {
	return func(f *PriceCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPriceCacheFactory creates a new factory
func NewPriceCacheFactory(redisCfg RedisConfig, opts ...PriceCacheFactoryOption) *PriceCacheFactory {
	f := &PriceCacheFactory{
		redisConfig:           redisCfg,
		priceTTL:              defaultPriceTTL,
		zoneTTL:               defaultZoneTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds the price cache for the requested backend:
// "tiered" (in-memory L1 over Redis L2), "redis", "memory", or "none".
// With fallback enabled, an unreachable Redis degrades tiered/redis
// backends to the in-memory cache instead of failing startup.
func (f *PriceCacheFactory) Create(backend string) (pricing.PriceCache, error) {
	switch backend {
	case "none":
		f.logger.Warn("Price cache disabled, every quote computes from source")
		return NewNoopPriceCache(), nil

	case "memory":
		return f.newInMemory(), nil

	case "redis":
		l2, err := f.newRedis()
		if err != nil {
			return f.fallback(err)
		}
		return l2, nil

	case "tiered", "":
		l2, err := f.newRedis()
		if err != nil {
			return f.fallback(err)
		}
		return NewTieredPriceCache(f.newInMemory(), l2, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown price cache backend %q", backend)
	}
}

func (f *PriceCacheFactory) newInMemory() *InMemoryPriceCache {
	return NewInMemoryPriceCache(
		WithInMemoryPriceTTL(f.priceTTL),
		WithInMemoryZoneTTL(f.zoneTTL),
		WithInMemoryLogger(f.logger),
	)
}

func (f *PriceCacheFactory) newRedis() (*RedisPriceCache, error) {
	return NewRedisPriceCache(f.redisConfig,
		WithRedisPriceTTL(f.priceTTL),
		WithRedisZoneTTL(f.zoneTTL),
		WithRedisLogger(f.logger),
	)
}

func (f *PriceCacheFactory) fallback(cause error) (pricing.PriceCache, error) {
	if !f.allowInMemoryFallback {
		return nil, cause
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory price cache",
		zap.Error(cause))
	return f.newInMemory(), nil
}
