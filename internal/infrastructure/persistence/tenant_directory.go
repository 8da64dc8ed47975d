package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shipstack/backend/internal/domain/pricing"
	"github.com/shipstack/backend/internal/domain/shared"
)

// TenantRecord is the directory row for a tenant. The pricing core only
// reads the fallback default; tenant lifecycle is owned elsewhere.
type TenantRecord struct {
	shared.BaseEntity
	Name          string           `gorm:"size:255;not null"`
	FallbackPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// TableName sets the GORM table name
func (TenantRecord) TableName() string {
	return "tenants"
}

// GormTenantDirectory implements pricing.TenantDirectory over the tenants
// table
type GormTenantDirectory struct {
	db *gorm.DB
}

// NewGormTenantDirectory creates a new GormTenantDirectory
func NewGormTenantDirectory(db *gorm.DB) *GormTenantDirectory {
	return &GormTenantDirectory{db: db}
}

// FallbackPrice returns the tenant's configured default base price. A
// missing tenant row and an unconfigured default both report no fallback.
func (d *GormTenantDirectory) FallbackPrice(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, bool, error) {
	var record TenantRecord
	err := d.db.WithContext(ctx).First(&record, "id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	if record.FallbackPrice == nil || !record.FallbackPrice.IsPositive() {
		return decimal.Zero, false, nil
	}
	return *record.FallbackPrice, true, nil
}

// Ensure GormTenantDirectory implements pricing.TenantDirectory
var _ pricing.TenantDirectory = (*GormTenantDirectory)(nil)
