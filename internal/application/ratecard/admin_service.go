package ratecard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipstack/backend/internal/application/ratecard/dto"
	"github.com/shipstack/backend/internal/domain/pricing"
	"github.com/shipstack/backend/internal/domain/ratecard"
	"github.com/shipstack/backend/internal/domain/shared"
)

// AdminService handles rate card administration: drafting new versions,
// promoting them, and reading version history. Promotion invalidates the
// tenant's cached prices before returning, so the tenant that just changed
// rates immediately reads its own write.
type AdminService struct {
	repo   ratecard.Repository
	cache  pricing.PriceCache
	logger *zap.Logger
}

// NewAdminService creates a new rate card admin service
func NewAdminService(repo ratecard.Repository, cache pricing.PriceCache, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// CreateVersion drafts a new rate card version. With FromVersionID set, the
// draft chains to that version; either way the rules in the request become
// the draft's rules.
func (s *AdminService) CreateVersion(ctx context.Context, req dto.CreateRateCardRequest) (*dto.RateCardResponse, error) {
	s.logger.Info("Creating rate card version",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("carrier", req.Carrier),
		zap.String("service_type", req.ServiceType))

	card, err := s.newDraft(ctx, req)
	if err != nil {
		return nil, err
	}

	baseRates, weightRules, zoneRules, overrides := req.DomainRules()
	if err := card.SetRules(baseRates, weightRules, zoneRules, overrides); err != nil {
		return nil, err
	}

	if err := s.repo.CreateVersion(ctx, card); err != nil {
		s.logger.Error("Failed to persist rate card version", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Rate card version created",
		zap.String("id", card.ID.String()),
		zap.Int("card_version", card.CardVersion))

	return dto.ToRateCardResponse(card), nil
}

// newDraft builds the draft aggregate, chained to a prior version when the
// request names one
func (s *AdminService) newDraft(ctx context.Context, req dto.CreateRateCardRequest) (*ratecard.RateCard, error) {
	if req.FromVersionID == nil {
		return ratecard.NewDraft(req.TenantID, req.Carrier, req.ServiceType, req.EffectiveFrom, req.EffectiveTo)
	}

	prev, err := s.repo.FindByID(ctx, *req.FromVersionID)
	if err != nil {
		return nil, err
	}
	if prev.TenantID != req.TenantID || prev.Carrier != req.Carrier || prev.ServiceType != req.ServiceType {
		return nil, shared.NewDomainError(shared.ErrValidation.Code,
			"previous version belongs to a different scope")
	}
	return ratecard.NewDraftFrom(prev, req.EffectiveFrom, req.EffectiveTo)
}

// Promote activates a version and retires the previously active version of
// its scope, then evicts the tenant's cached prices before returning.
func (s *AdminService) Promote(ctx context.Context, id uuid.UUID) (*dto.RateCardResponse, error) {
	card, err := s.repo.Promote(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrPromotionConflict) {
			s.logger.Warn("Rate card promotion lost a concurrent race",
				zap.String("id", id.String()))
		}
		return nil, err
	}

	// Invalidation happens before Promote returns to the caller: once the
	// admin sees success, no request can serve the retired version's price.
	if err := s.cache.InvalidateTenant(ctx, card.TenantID); err != nil {
		s.logger.Error("Tenant price cache invalidation degraded, stale prices possible until TTL",
			zap.String("tenant_id", card.TenantID.String()),
			zap.Error(err))
	}

	s.logger.Info("Rate card promoted",
		zap.String("id", card.ID.String()),
		zap.String("tenant_id", card.TenantID.String()),
		zap.String("scope", ratecard.Scope{Carrier: card.Carrier, ServiceType: card.ServiceType}.String()),
		zap.Int("card_version", card.CardVersion))

	return dto.ToRateCardResponse(card), nil
}

// Get returns one rate card version by ID
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*dto.RateCardResponse, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToRateCardResponse(card), nil
}

// ListVersions returns a scope's full version history, newest first
func (s *AdminService) ListVersions(ctx context.Context, filter dto.ListVersionsFilter) ([]dto.RateCardResponse, error) {
	cards, err := s.repo.ListVersions(ctx, filter.TenantID, filter.Carrier, filter.ServiceType)
	if err != nil {
		return nil, err
	}
	return dto.ToRateCardListResponse(cards), nil
}
