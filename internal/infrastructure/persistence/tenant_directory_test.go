package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shipstack/backend/internal/domain/shared"
)

func setupTenantTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&TenantRecord{}))
	return db
}

func TestGormTenantDirectory_FallbackPrice(t *testing.T) {
	db := setupTenantTestDB(t)
	directory := NewGormTenantDirectory(db)
	ctx := context.Background()

	t.Run("unknown tenant has no fallback", func(t *testing.T) {
		_, ok, err := directory.FallbackPrice(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("tenant without configured default has no fallback", func(t *testing.T) {
		record := &TenantRecord{BaseEntity: shared.NewBaseEntity(), Name: "Acme Logistics"}
		require.NoError(t, db.Create(record).Error)

		_, ok, err := directory.FallbackPrice(ctx, record.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("configured default is returned", func(t *testing.T) {
		price := decimal.RequireFromString("120.50")
		record := &TenantRecord{
			BaseEntity:    shared.NewBaseEntity(),
			Name:          "Sharma Traders",
			FallbackPrice: &price,
		}
		require.NoError(t, db.Create(record).Error)

		got, ok, err := directory.FallbackPrice(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, got.Equal(price))
	})
}
