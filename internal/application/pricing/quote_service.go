package pricing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/pricing"
	"github.com/shipstack/backend/internal/domain/ratecard"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Defaults for orchestrator tuning knobs
const (
	DefaultCompareLegTimeout = 2 * time.Second
)

// QuoteService orchestrates pricing: request validation, zone resolution,
// cache read-through, rate card lookup, calculation, and the documented
// fallback when a tenant has no active rate card at all.
//
// Cache failures never fail a request; the service falls through to direct
// computation and logs degraded-mode operation.
type QuoteService struct {
	repo       ratecard.Repository
	classifier *geography.Classifier
	cache      pricing.PriceCache
	directory  pricing.TenantDirectory
	calculator *pricing.Calculator
	logger     *zap.Logger

	bucketKg          decimal.Decimal
	cacheTTL          time.Duration
	zoneTTL           time.Duration
	compareLegTimeout time.Duration

	// flights coalesces concurrent identical misses (zone and breakdown)
	// into a single upstream computation
	flights singleflight.Group
}

// QuoteServiceOption is a functional option for configuring the service
type QuoteServiceOption func(*QuoteService)

// WithWeightBucket sets the cache weight bucket width
func WithWeightBucket(bucketKg decimal.Decimal) QuoteServiceOption {
	return func(s *QuoteService) {
		if bucketKg.IsPositive() {
			s.bucketKg = bucketKg
		}
	}
}

// WithCacheTTLs sets the breakdown and zone cache TTLs
func WithCacheTTLs(cacheTTL, zoneTTL time.Duration) QuoteServiceOption {
	return func(s *QuoteService) {
		if cacheTTL > 0 {
			s.cacheTTL = cacheTTL
		}
		if zoneTTL > 0 {
			s.zoneTTL = zoneTTL
		}
	}
}

// WithCompareLegTimeout bounds each per-carrier leg of a comparison
func WithCompareLegTimeout(timeout time.Duration) QuoteServiceOption {
	return func(s *QuoteService) {
		if timeout > 0 {
			s.compareLegTimeout = timeout
		}
	}
}

// WithQuoteLogger sets the logger for the service
func WithQuoteLogger(logger *zap.Logger) QuoteServiceOption {
	return func(s *QuoteService) {
		s.logger = logger
	}
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	repo ratecard.Repository,
	classifier *geography.Classifier,
	cache pricing.PriceCache,
	directory pricing.TenantDirectory,
	calculator *pricing.Calculator,
	opts ...QuoteServiceOption,
) *QuoteService {
	s := &QuoteService{
		repo:              repo,
		classifier:        classifier,
		cache:             cache,
		directory:         directory,
		calculator:        calculator,
		logger:            zap.NewNop(),
		bucketKg:          pricing.DefaultWeightBucketKg,
		compareLegTimeout: DefaultCompareLegTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Quote prices a single (carrier, service type) leg for a tenant
func (s *QuoteService) Quote(ctx context.Context, req pricing.Request) (*pricing.Breakdown, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	return s.quoteLeg(ctx, req)
}

// quoteLeg runs the resolution pipeline for one already-validated leg:
// zone → breakdown cache → rate card → calculate → cache.
func (s *QuoteService) quoteLeg(ctx context.Context, req pricing.Request) (*pricing.Breakdown, error) {
	zone, err := s.resolveZone(ctx, req.OriginPostal, req.DestPostal)
	if err != nil {
		return nil, err
	}

	sameState, err := s.classifier.SameState(req.OriginPostal, req.DestPostal)
	if err != nil {
		return nil, err
	}

	key := pricing.CacheKey{
		TenantID:     req.TenantID,
		Carrier:      req.Carrier,
		ServiceType:  req.ServiceType,
		Zone:         zone,
		WeightBucket: pricing.WeightBucket(req.WeightKg, s.bucketKg),
		PaymentMode:  req.PaymentMode,
		CustomerID:   req.CustomerID,
	}

	if cached, err := s.cache.GetBreakdown(ctx, key); err != nil {
		s.logger.Warn("Price cache read failed, computing directly", zap.Error(err))
	} else if cached != nil {
		return restamp(cached), nil
	}

	result, err, _ := s.flights.Do(key.String(), func() (any, error) {
		return s.computeLeg(ctx, req, zone, sameState, key)
	})
	if err != nil {
		return nil, err
	}

	// The flight result is shared across waiters; each caller gets its own
	// audit stamp on a copy.
	return restamp(result.(*pricing.Breakdown)), nil
}

// computeLeg is the cache-miss path: active card or fallback, then calculate
func (s *QuoteService) computeLeg(
	ctx context.Context,
	req pricing.Request,
	zone geography.ZoneCode,
	sameState bool,
	key pricing.CacheKey,
) (*pricing.Breakdown, error) {
	card, err := s.repo.GetActive(ctx, req.TenantID, req.Carrier, req.ServiceType)
	if err != nil {
		if errors.Is(err, shared.ErrNoActiveRateCard) {
			return s.fallback(ctx, req, zone, sameState, err)
		}
		s.logger.Error("Rate card lookup failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("carrier", req.Carrier),
			zap.Error(err))
		return nil, err
	}

	breakdown, err := s.calculator.Calculate(
		card, zone, req.WeightKg, req.PaymentMode, req.DeclaredValue, req.CustomerID, sameState)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetBreakdown(ctx, key, breakdown, s.cacheTTL); err != nil {
		s.logger.Warn("Price cache write failed", zap.Error(err))
	}

	return breakdown, nil
}

// fallback quotes the tenant's configured default price when no rate card
// is active in any scope. Fallback quotes are never cached: they should
// disappear the moment the tenant activates a real card.
func (s *QuoteService) fallback(
	ctx context.Context,
	req pricing.Request,
	zone geography.ZoneCode,
	sameState bool,
	noActive error,
) (*pricing.Breakdown, error) {
	hasAny, err := s.repo.HasAnyActive(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if hasAny {
		// The tenant prices other scopes; this scope is genuinely
		// unconfigured rather than an onboarding gap.
		return nil, noActive
	}

	defaultPrice, ok, err := s.directory.FallbackPrice(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noActive
	}

	s.logger.Info("Serving fallback price, tenant has no active rate cards",
		zap.String("tenant_id", req.TenantID.String()))

	return s.calculator.Fallback(
		defaultPrice, req.Carrier, req.ServiceType, zone,
		req.PaymentMode, req.DeclaredValue, sameState), nil
}

// resolveZone classifies the route with a cache in front of the classifier.
// Concurrent misses for the same route collapse into one classification.
func (s *QuoteService) resolveZone(ctx context.Context, originPostal, destPostal string) (geography.ZoneCode, error) {
	if zone, err := s.cache.GetZone(ctx, originPostal, destPostal); err != nil {
		s.logger.Warn("Zone cache read failed, classifying directly", zap.Error(err))
	} else if zone != "" {
		return zone, nil
	}

	result, err, _ := s.flights.Do(pricing.ZoneKey(originPostal, destPostal), func() (any, error) {
		zone, err := s.classifier.ClassifyRoute(originPostal, destPostal)
		if err != nil {
			return "", err
		}
		if err := s.cache.SetZone(ctx, originPostal, destPostal, zone, s.zoneTTL); err != nil {
			s.logger.Warn("Zone cache write failed", zap.Error(err))
		}
		return zone, nil
	})
	if err != nil {
		return "", err
	}
	return result.(geography.ZoneCode), nil
}

// Compare prices every scope the tenant has an active card for and ranks
// the results ascending by total price. Per-carrier failures are excluded
// from the comparison instead of failing the whole request.
func (s *QuoteService) Compare(ctx context.Context, req pricing.Request) ([]pricing.RankedQuote, error) {
	if err := req.Validate(true); err != nil {
		return nil, err
	}

	scopes, err := s.repo.ActiveScopes(ctx, req.TenantID)
	if err != nil {
		s.logger.Error("Active scope listing failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.Error(err))
		return nil, err
	}

	if len(scopes) == 0 {
		// No active card in any scope: the single fallback quote is the
		// whole comparison.
		zone, err := s.resolveZone(ctx, req.OriginPostal, req.DestPostal)
		if err != nil {
			return nil, err
		}
		sameState, err := s.classifier.SameState(req.OriginPostal, req.DestPostal)
		if err != nil {
			return nil, err
		}
		breakdown, err := s.fallback(ctx, req, zone, sameState, &ratecard.NoActiveRateCardError{TenantID: req.TenantID})
		if err != nil {
			return nil, err
		}
		return []pricing.RankedQuote{{Breakdown: breakdown, Rank: 1, Recommended: true}}, nil
	}

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		breakdowns []*pricing.Breakdown
	)

	for _, scope := range scopes {
		wg.Add(1)
		go func(scope ratecard.Scope) {
			defer wg.Done()

			legCtx, cancel := context.WithTimeout(ctx, s.compareLegTimeout)
			defer cancel()

			legReq := req
			legReq.Carrier = scope.Carrier
			legReq.ServiceType = scope.ServiceType

			breakdown, err := s.quoteLeg(legCtx, legReq)
			if err != nil {
				s.logger.Warn("Comparison leg excluded",
					zap.String("tenant_id", req.TenantID.String()),
					zap.String("scope", scope.String()),
					zap.Error(err))
				return
			}

			mu.Lock()
			breakdowns = append(breakdowns, breakdown)
			mu.Unlock()
		}(scope)
	}
	wg.Wait()

	if len(breakdowns) == 0 {
		return nil, shared.NewDomainError(shared.ErrUnserviceableRoute.Code,
			"no carrier can service this route")
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		a, b := breakdowns[i], breakdowns[j]
		if !a.TotalPrice.Equals(b.TotalPrice) {
			return a.TotalPrice.Amount().LessThan(b.TotalPrice.Amount())
		}
		if a.Carrier != b.Carrier {
			return a.Carrier < b.Carrier
		}
		return a.ServiceType < b.ServiceType
	})

	ranked := make([]pricing.RankedQuote, len(breakdowns))
	for i, b := range breakdowns {
		ranked[i] = pricing.RankedQuote{
			Breakdown:   b,
			Rank:        i + 1,
			Recommended: i == 0,
		}
	}
	return ranked, nil
}

// restamp returns a copy of the breakdown with a fresh audit stamp, so
// cached and flight-shared results never leak a shared mutable pointer
func restamp(b *pricing.Breakdown) *pricing.Breakdown {
	copied := *b
	copied.CalculatedAt = time.Now().UTC()
	return &copied
}
