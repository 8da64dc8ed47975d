package ratecard

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeRateCard = "RateCard"

// Status is the lifecycle state of a rate card version
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether the status is a known lifecycle state
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive:
		return true
	}
	return false
}

// RateCard is the aggregate root for a versioned, tenant-scoped pricing
// policy. A card covers exactly one (carrier, service type) scope. Edits
// never mutate history: a change is a new version chained to its
// predecessor, and promotion flips the single active pointer per scope.
type RateCard struct {
	shared.TenantAggregateRoot
	Carrier           string             `gorm:"size:64;not null;index:idx_rate_card_scope"`
	ServiceType       string             `gorm:"size:64;not null;index:idx_rate_card_scope"`
	Status            Status             `gorm:"size:16;not null;index"`
	CardVersion       int                `gorm:"not null;default:1"`
	PreviousVersionID *uuid.UUID         `gorm:"type:uuid"`
	EffectiveFrom     time.Time          `gorm:"not null"`
	EffectiveTo       *time.Time         ``
	BaseRates         []BaseRate         `gorm:"serializer:json"`
	WeightRules       []WeightRule       `gorm:"serializer:json"`
	ZoneRules         []ZoneRule         `gorm:"serializer:json"`
	CustomerOverrides []CustomerOverride `gorm:"serializer:json"`
}

// NewDraft creates the first version of a rate card for a scope
func NewDraft(
	tenantID uuid.UUID,
	carrier string,
	serviceType string,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
) (*RateCard, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "rate card requires a tenant")
	}
	if carrier == "" {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "rate card requires a carrier")
	}
	if serviceType == "" {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "rate card requires a service type")
	}
	if effectiveTo != nil && !effectiveTo.After(effectiveFrom) {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "effective-to must be after effective-from")
	}

	card := &RateCard{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Carrier:             carrier,
		ServiceType:         serviceType,
		Status:              StatusDraft,
		CardVersion:         1,
		EffectiveFrom:       effectiveFrom,
		EffectiveTo:         effectiveTo,
	}

	card.AddDomainEvent(NewRateCardDraftedEvent(card))

	return card, nil
}

// NewDraftFrom creates the next version of an existing card, copying its
// rule collections and linking the version chain. The predecessor's stored
// fields are never touched.
func NewDraftFrom(prev *RateCard, effectiveFrom time.Time, effectiveTo *time.Time) (*RateCard, error) {
	card, err := NewDraft(prev.TenantID, prev.Carrier, prev.ServiceType, effectiveFrom, effectiveTo)
	if err != nil {
		return nil, err
	}

	prevID := prev.ID
	card.CardVersion = prev.CardVersion + 1
	card.PreviousVersionID = &prevID
	card.BaseRates = append([]BaseRate(nil), prev.BaseRates...)
	card.WeightRules = append([]WeightRule(nil), prev.WeightRules...)
	card.ZoneRules = append([]ZoneRule(nil), prev.ZoneRules...)
	card.CustomerOverrides = append([]CustomerOverride(nil), prev.CustomerOverrides...)

	return card, nil
}

// SetRules replaces the draft's rule collections after validating each rule.
// Only drafts can be edited; active and inactive versions are history.
func (c *RateCard) SetRules(
	baseRates []BaseRate,
	weightRules []WeightRule,
	zoneRules []ZoneRule,
	overrides []CustomerOverride,
) error {
	if c.Status != StatusDraft {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "only draft rate cards can be edited")
	}
	if len(baseRates) == 0 {
		return shared.NewDomainError(shared.ErrValidation.Code, "rate card requires at least one base rate slab")
	}
	for _, r := range baseRates {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, r := range weightRules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, r := range zoneRules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return err
		}
	}

	c.BaseRates = append([]BaseRate(nil), baseRates...)
	sort.Slice(c.BaseRates, func(i, j int) bool {
		return c.BaseRates[i].MinWeightKg.LessThan(c.BaseRates[j].MinWeightKg)
	})
	c.WeightRules = append([]WeightRule(nil), weightRules...)
	sort.Slice(c.WeightRules, func(i, j int) bool {
		return c.WeightRules[i].FromKg.LessThan(c.WeightRules[j].FromKg)
	})
	c.ZoneRules = append([]ZoneRule(nil), zoneRules...)
	c.CustomerOverrides = append([]CustomerOverride(nil), overrides...)
	c.UpdatedAt = time.Now()

	return nil
}

// CanActivate checks whether this version may be promoted at the given
// instant. Promoting outside the effective-date window is a validation
// error.
func (c *RateCard) CanActivate(now time.Time) error {
	if c.Status == StatusActive {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "rate card is already active")
	}
	if c.Status == StatusInactive {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "inactive rate card versions cannot be reactivated")
	}
	if len(c.BaseRates) == 0 {
		return shared.NewDomainError(shared.ErrValidation.Code, "rate card has no base rate slabs configured")
	}
	if now.Before(c.EffectiveFrom) {
		return shared.NewDomainError(shared.ErrValidation.Code, "rate card effective window has not started")
	}
	if c.EffectiveTo != nil && now.After(*c.EffectiveTo) {
		return shared.NewDomainError(shared.ErrValidation.Code, "rate card effective window has ended")
	}
	return nil
}

// Activate transitions a draft to active
func (c *RateCard) Activate(now time.Time) error {
	if err := c.CanActivate(now); err != nil {
		return err
	}
	c.Status = StatusActive
	c.UpdatedAt = now
	c.AddDomainEvent(NewRateCardPromotedEvent(c))
	return nil
}

// Deactivate soft-retires this version. Cards referenced by historical
// shipments are never hard-deleted; this is the only removal path.
func (c *RateCard) Deactivate(now time.Time) error {
	if c.Status == StatusInactive {
		return nil
	}
	c.Status = StatusInactive
	c.UpdatedAt = now
	c.AddDomainEvent(NewRateCardDeactivatedEvent(c))
	return nil
}

// SlabFor returns the base rate slab matching the given weight, or false
// when the weight exceeds every configured slab
func (c *RateCard) SlabFor(weightKg decimal.Decimal) (BaseRate, bool) {
	for _, slab := range c.BaseRates {
		if slab.Matches(weightKg) {
			return slab, true
		}
	}
	return BaseRate{}, false
}

// TopSlab returns the highest-weight base rate slab
func (c *RateCard) TopSlab() (BaseRate, bool) {
	if len(c.BaseRates) == 0 {
		return BaseRate{}, false
	}
	top := c.BaseRates[0]
	for _, slab := range c.BaseRates[1:] {
		if slab.MaxWeightKg.GreaterThan(top.MaxWeightKg) {
			top = slab
		}
	}
	return top, true
}

// WeightRuleFor returns the per-kg rule selected by the given total weight.
// When no rule range contains the weight, the highest-range rule applies.
func (c *RateCard) WeightRuleFor(weightKg decimal.Decimal) (WeightRule, bool) {
	if len(c.WeightRules) == 0 {
		return WeightRule{}, false
	}
	for _, rule := range c.WeightRules {
		if rule.Matches(weightKg) {
			return rule, true
		}
	}
	return c.WeightRules[len(c.WeightRules)-1], true
}

// ZoneChargeFor returns the additive charge for a zone, zero when no rule
// is configured for it
func (c *RateCard) ZoneChargeFor(zone geography.ZoneCode) decimal.Decimal {
	for _, rule := range c.ZoneRules {
		if rule.Matches(zone) {
			return rule.Charge
		}
	}
	return decimal.Zero
}

// OverrideFor returns the customer override for a customer, if any
func (c *RateCard) OverrideFor(customerID uuid.UUID) (CustomerOverride, bool) {
	if customerID == uuid.Nil {
		return CustomerOverride{}, false
	}
	for _, o := range c.CustomerOverrides {
		if o.Matches(customerID) {
			return o, true
		}
	}
	return CustomerOverride{}, false
}

// TableName sets the GORM table name
func (RateCard) TableName() string {
	return "rate_cards"
}
