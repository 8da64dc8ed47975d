package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipstack/backend/internal/domain/ratecard"
	"github.com/shipstack/backend/internal/domain/shared"
)

// GormRateCardRepository implements ratecard.Repository using GORM. The
// aggregate maps straight onto the rate_cards table; rule collections ride
// along as JSON columns because they are only ever read and written with
// their card.
//
// The single-active-card-per-scope invariant is enforced by a partial unique
// index on (tenant_id, carrier, service_type) WHERE status = 'active', so a
// lost promotion race surfaces as a unique violation rather than a second
// active row.
type GormRateCardRepository struct {
	db *gorm.DB
}

// NewGormRateCardRepository creates a new GormRateCardRepository
func NewGormRateCardRepository(db *gorm.DB) *GormRateCardRepository {
	return &GormRateCardRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormRateCardRepository) WithTx(tx *gorm.DB) *GormRateCardRepository {
	return &GormRateCardRepository{db: tx}
}

// FindByID finds a rate card version by its ID
func (r *GormRateCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*ratecard.RateCard, error) {
	var card ratecard.RateCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

// GetActive returns the single active card for a tenant scope
func (r *GormRateCardRepository) GetActive(ctx context.Context, tenantID uuid.UUID, carrier, serviceType string) (*ratecard.RateCard, error) {
	var card ratecard.RateCard
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND carrier = ? AND service_type = ? AND status = ?",
			tenantID, carrier, serviceType, ratecard.StatusActive).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ratecard.NoActiveRateCardError{
				TenantID: tenantID,
				Scope:    ratecard.Scope{Carrier: carrier, ServiceType: serviceType},
			}
		}
		return nil, err
	}
	return &card, nil
}

// ActiveScopes lists every scope the tenant has an active card for
func (r *GormRateCardRepository) ActiveScopes(ctx context.Context, tenantID uuid.UUID) ([]ratecard.Scope, error) {
	var scopes []ratecard.Scope
	err := r.db.WithContext(ctx).
		Model(&ratecard.RateCard{}).
		Where("tenant_id = ? AND status = ?", tenantID, ratecard.StatusActive).
		Select("carrier", "service_type").
		Order("carrier, service_type").
		Scan(&scopes).Error
	if err != nil {
		return nil, err
	}
	return scopes, nil
}

// HasAnyActive reports whether the tenant has at least one active card
func (r *GormRateCardRepository) HasAnyActive(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ratecard.RateCard{}).
		Where("tenant_id = ? AND status = ?", tenantID, ratecard.StatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListVersions returns the full version history for a scope, newest first
func (r *GormRateCardRepository) ListVersions(ctx context.Context, tenantID uuid.UUID, carrier, serviceType string) ([]*ratecard.RateCard, error) {
	var cards []*ratecard.RateCard
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND carrier = ? AND service_type = ?", tenantID, carrier, serviceType).
		Order("card_version DESC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateVersion inserts a new draft version. Prior versions are never touched.
func (r *GormRateCardRepository) CreateVersion(ctx context.Context, card *ratecard.RateCard) error {
	result := r.db.WithContext(ctx).Create(card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	return nil
}

// Promote transactionally activates a version and retires the previously
// active version for the same scope. A promotion losing a concurrent race
// for the scope is retried once with fresh state; a second loss surfaces
// shared.ErrPromotionConflict.
func (r *GormRateCardRepository) Promote(ctx context.Context, id uuid.UUID) (*ratecard.RateCard, error) {
	card, err := r.promoteOnce(ctx, id)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		card, err = r.promoteOnce(ctx, id)
		if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.ErrPromotionConflict
		}
	}
	return card, err
}

// promoteOnce runs a single promotion attempt in one transaction: both
// status flips commit together or not at all, so a scope never observably
// has zero or two active cards.
func (r *GormRateCardRepository) promoteOnce(ctx context.Context, id uuid.UUID) (*ratecard.RateCard, error) {
	var promoted *ratecard.RateCard

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card ratecard.RateCard
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if err := card.Activate(now); err != nil {
			return err
		}

		if err := tx.Model(&ratecard.RateCard{}).
			Where("tenant_id = ? AND carrier = ? AND service_type = ? AND status = ? AND id <> ?",
				card.TenantID, card.Carrier, card.ServiceType, ratecard.StatusActive, card.ID).
			Updates(map[string]any{
				"status":     ratecard.StatusInactive,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&card).
			Updates(map[string]any{
				"status":     ratecard.StatusActive,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		promoted = &card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// Ensure GormRateCardRepository implements ratecard.Repository
var _ ratecard.Repository = (*GormRateCardRepository)(nil)
