package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantDirectory supplies tenant-level pricing defaults. It backs the
// no-active-rate-card fallback path only: when a tenant has no active card
// in any scope, the orchestrator quotes the tenant's configured default
// price instead of failing the shipment-creation flow.
type TenantDirectory interface {
	// FallbackPrice returns the tenant's configured default base price.
	// ok is false when the tenant has no fallback configured, in which
	// case the orchestrator surfaces the no-active-rate-card error.
	FallbackPrice(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, bool, error)
}
