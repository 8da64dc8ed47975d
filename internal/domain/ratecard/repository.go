package ratecard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/shared"
)

// Scope identifies the (carrier, service type) combination a card prices
type Scope struct {
	Carrier     string
	ServiceType string
}

// String returns the scope in carrier/service form
func (s Scope) String() string {
	return fmt.Sprintf("%s/%s", s.Carrier, s.ServiceType)
}

// NoActiveRateCardError reports that a tenant has no active card for the
// requested scope. Distinct from NOT_FOUND: the tenant may have drafts or
// retired versions configured.
type NoActiveRateCardError struct {
	TenantID uuid.UUID
	Scope    Scope
}

// Error implements the error interface
func (e *NoActiveRateCardError) Error() string {
	return fmt.Sprintf("tenant %s has no active rate card for %s", e.TenantID, e.Scope)
}

// Unwrap allows errors.Is checks against the shared sentinel
func (e *NoActiveRateCardError) Unwrap() error {
	return shared.ErrNoActiveRateCard
}

// Repository defines rate card persistence.
//
// Versioning contract: CreateVersion only ever inserts; Promote is the only
// multi-write operation and must be atomic, so a scope never observably has
// zero or two active cards.
type Repository interface {
	// FindByID finds a rate card version by its ID.
	// Returns shared.ErrNotFound if not found.
	FindByID(ctx context.Context, id uuid.UUID) (*RateCard, error)

	// GetActive returns the single active card for a tenant scope.
	// Returns *NoActiveRateCardError when none is active.
	GetActive(ctx context.Context, tenantID uuid.UUID, carrier, serviceType string) (*RateCard, error)

	// ActiveScopes lists every scope the tenant has an active card for,
	// used by multi-carrier comparison fan-out.
	ActiveScopes(ctx context.Context, tenantID uuid.UUID) ([]Scope, error)

	// HasAnyActive reports whether the tenant has at least one active card
	// in any scope.
	HasAnyActive(ctx context.Context, tenantID uuid.UUID) (bool, error)

	// ListVersions returns the full version history for a scope, newest first.
	ListVersions(ctx context.Context, tenantID uuid.UUID, carrier, serviceType string) ([]*RateCard, error)

	// CreateVersion inserts a new draft version. It never mutates a prior
	// version's stored fields.
	CreateVersion(ctx context.Context, card *RateCard) error

	// Promote transactionally activates the given version and deactivates
	// the previously active version for the same scope. Both writes succeed
	// or neither does. A promotion losing a concurrent race for the same
	// scope is retried once with fresh state, then surfaces
	// shared.ErrPromotionConflict.
	Promote(ctx context.Context, id uuid.UUID) (*RateCard, error)
}
