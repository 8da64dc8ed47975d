package ratecard

import (
	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rule collections are typed variants with explicit match functions so the
// calculator handles every rule kind exhaustively instead of duck-typing
// loosely shaped rule objects.

// BaseRate is a weight slab: a base price for parcels whose chargeable
// weight falls inside [MinWeightKg, MaxWeightKg].
type BaseRate struct {
	MinWeightKg decimal.Decimal `json:"min_weight_kg"`
	MaxWeightKg decimal.Decimal `json:"max_weight_kg"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

// Matches reports whether the given weight falls inside this slab
func (r BaseRate) Matches(weightKg decimal.Decimal) bool {
	return weightKg.GreaterThanOrEqual(r.MinWeightKg) && weightKg.LessThanOrEqual(r.MaxWeightKg)
}

// Validate checks the slab bounds
func (r BaseRate) Validate() error {
	if r.MinWeightKg.IsNegative() {
		return shared.NewDomainError(shared.ErrValidation.Code, "base rate min weight cannot be negative")
	}
	if r.MaxWeightKg.LessThanOrEqual(r.MinWeightKg) {
		return shared.NewDomainError(shared.ErrValidation.Code, "base rate max weight must exceed min weight")
	}
	if r.BasePrice.IsNegative() {
		return shared.NewDomainError(shared.ErrValidation.Code, "base rate price cannot be negative")
	}
	return nil
}

// WeightRule prices each additional kilogram beyond the top base slab for
// parcels whose total weight falls inside (FromKg, ToKg]. A zero ToKg means
// the rule is open-ended.
type WeightRule struct {
	FromKg decimal.Decimal `json:"from_kg"`
	ToKg   decimal.Decimal `json:"to_kg"`
	PerKg  decimal.Decimal `json:"per_kg"`
}

// Matches reports whether the given total weight selects this rule
func (r WeightRule) Matches(weightKg decimal.Decimal) bool {
	if weightKg.LessThanOrEqual(r.FromKg) {
		return false
	}
	return r.ToKg.IsZero() || weightKg.LessThanOrEqual(r.ToKg)
}

// Validate checks the rule bounds
func (r WeightRule) Validate() error {
	if r.FromKg.IsNegative() {
		return shared.NewDomainError(shared.ErrValidation.Code, "weight rule lower bound cannot be negative")
	}
	if !r.ToKg.IsZero() && r.ToKg.LessThanOrEqual(r.FromKg) {
		return shared.NewDomainError(shared.ErrValidation.Code, "weight rule upper bound must exceed lower bound")
	}
	if r.PerKg.IsNegative() {
		return shared.NewDomainError(shared.ErrValidation.Code, "weight rule per-kg price cannot be negative")
	}
	return nil
}

// ZoneRule is an additive charge for a resolved shipping zone. Absence of a
// rule for a zone means no surcharge, which is a valid configuration.
type ZoneRule struct {
	Zone   geography.ZoneCode `json:"zone"`
	Charge decimal.Decimal    `json:"charge"`
}

// Matches reports whether this rule applies to the given zone
func (r ZoneRule) Matches(zone geography.ZoneCode) bool {
	return r.Zone == zone
}

// Validate checks the zone rule
func (r ZoneRule) Validate() error {
	if !r.Zone.IsValid() {
		return shared.NewDomainError(shared.ErrValidation.Code, "zone rule references an unknown zone")
	}
	if r.Charge.IsNegative() {
		return shared.NewDomainError(shared.ErrValidation.Code, "zone rule charge cannot be negative")
	}
	return nil
}

// OverrideKind distinguishes customer override variants
type OverrideKind string

const (
	// OverridePercentage discounts the subtotal by Value percent
	OverridePercentage OverrideKind = "percentage"
	// OverrideFlat rebates a fixed Value amount off the subtotal
	OverrideFlat OverrideKind = "flat"
)

// CustomerOverride is a customer-specific discount scoped to one rate card
type CustomerOverride struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Kind       OverrideKind    `json:"kind"`
	Value      decimal.Decimal `json:"value"`
}

// Matches reports whether this override applies to the given customer
func (o CustomerOverride) Matches(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

// Discount computes the rebate amount for the given subtotal
func (o CustomerOverride) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch o.Kind {
	case OverridePercentage:
		return subtotal.Mul(o.Value).Div(decimal.NewFromInt(100))
	case OverrideFlat:
		return o.Value
	default:
		return decimal.Zero
	}
}

// Validate checks the override shape
func (o CustomerOverride) Validate() error {
	if o.CustomerID == uuid.Nil {
		return shared.NewDomainError(shared.ErrValidation.Code, "customer override requires a customer id")
	}
	switch o.Kind {
	case OverridePercentage:
		if o.Value.IsNegative() || o.Value.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError(shared.ErrValidation.Code, "percentage override must be between 0 and 100")
		}
	case OverrideFlat:
		if o.Value.IsNegative() {
			return shared.NewDomainError(shared.ErrValidation.Code, "flat override cannot be negative")
		}
	default:
		return shared.NewDomainError(shared.ErrValidation.Code, "unknown override kind")
	}
	return nil
}
