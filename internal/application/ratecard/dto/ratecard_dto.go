package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/ratecard"
)

// BaseRateDTO is one weight slab of a rate card
type BaseRateDTO struct {
	MinWeightKg decimal.Decimal `json:"min_weight_kg"`
	MaxWeightKg decimal.Decimal `json:"max_weight_kg" binding:"required"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
}

// WeightRuleDTO is one per-kg excess rule. A zero to_kg means open-ended.
type WeightRuleDTO struct {
	FromKg decimal.Decimal `json:"from_kg" binding:"required"`
	ToKg   decimal.Decimal `json:"to_kg"`
	PerKg  decimal.Decimal `json:"per_kg" binding:"required"`
}

// ZoneRuleDTO is one additive zone surcharge
type ZoneRuleDTO struct {
	Zone   string          `json:"zone" binding:"required,oneof=A B C D E"`
	Charge decimal.Decimal `json:"charge" binding:"required"`
}

// CustomerOverrideDTO is one customer-specific discount
type CustomerOverrideDTO struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Kind       string          `json:"kind" binding:"required,oneof=percentage flat"`
	Value      decimal.Decimal `json:"value" binding:"required"`
}

// CreateRateCardRequest creates a new draft version. FromVersionID chains
// the draft to an existing version; rules given here replace the copied
// ones.
type CreateRateCardRequest struct {
	TenantID          uuid.UUID             `json:"tenant_id" binding:"required"`
	Carrier           string                `json:"carrier" binding:"required"`
	ServiceType       string                `json:"service_type" binding:"required"`
	EffectiveFrom     time.Time             `json:"effective_from" binding:"required"`
	EffectiveTo       *time.Time            `json:"effective_to,omitempty"`
	FromVersionID     *uuid.UUID            `json:"from_version_id,omitempty"`
	BaseRates         []BaseRateDTO         `json:"base_rates" binding:"required,min=1,dive"`
	WeightRules       []WeightRuleDTO       `json:"weight_rules,omitempty" binding:"dive"`
	ZoneRules         []ZoneRuleDTO         `json:"zone_rules,omitempty" binding:"dive"`
	CustomerOverrides []CustomerOverrideDTO `json:"customer_overrides,omitempty" binding:"dive"`
}

// DomainRules converts the request's rule collections to their domain forms
func (r CreateRateCardRequest) DomainRules() ([]ratecard.BaseRate, []ratecard.WeightRule, []ratecard.ZoneRule, []ratecard.CustomerOverride) {
	baseRates := make([]ratecard.BaseRate, len(r.BaseRates))
	for i, br := range r.BaseRates {
		baseRates[i] = ratecard.BaseRate{
			MinWeightKg: br.MinWeightKg,
			MaxWeightKg: br.MaxWeightKg,
			BasePrice:   br.BasePrice,
		}
	}

	weightRules := make([]ratecard.WeightRule, len(r.WeightRules))
	for i, wr := range r.WeightRules {
		weightRules[i] = ratecard.WeightRule{
			FromKg: wr.FromKg,
			ToKg:   wr.ToKg,
			PerKg:  wr.PerKg,
		}
	}

	zoneRules := make([]ratecard.ZoneRule, len(r.ZoneRules))
	for i, zr := range r.ZoneRules {
		zoneRules[i] = ratecard.ZoneRule{
			Zone:   geography.ZoneCode(zr.Zone),
			Charge: zr.Charge,
		}
	}

	overrides := make([]ratecard.CustomerOverride, len(r.CustomerOverrides))
	for i, o := range r.CustomerOverrides {
		overrides[i] = ratecard.CustomerOverride{
			CustomerID: o.CustomerID,
			Kind:       ratecard.OverrideKind(o.Kind),
			Value:      o.Value,
		}
	}

	return baseRates, weightRules, zoneRules, overrides
}

// ListVersionsFilter selects a scope's version history
type ListVersionsFilter struct {
	TenantID    uuid.UUID `form:"tenant_id" binding:"required"`
	Carrier     string    `form:"carrier" binding:"required"`
	ServiceType string    `form:"service_type" binding:"required"`
}

// RateCardResponse represents a rate card version in API responses
type RateCardResponse struct {
	ID                uuid.UUID             `json:"id"`
	TenantID          uuid.UUID             `json:"tenant_id"`
	Carrier           string                `json:"carrier"`
	ServiceType       string                `json:"service_type"`
	Status            string                `json:"status"`
	CardVersion       int                   `json:"card_version"`
	PreviousVersionID *uuid.UUID            `json:"previous_version_id,omitempty"`
	EffectiveFrom     time.Time             `json:"effective_from"`
	EffectiveTo       *time.Time            `json:"effective_to,omitempty"`
	BaseRates         []BaseRateDTO         `json:"base_rates"`
	WeightRules       []WeightRuleDTO       `json:"weight_rules,omitempty"`
	ZoneRules         []ZoneRuleDTO         `json:"zone_rules,omitempty"`
	CustomerOverrides []CustomerOverrideDTO `json:"customer_overrides,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ToRateCardResponse converts a domain rate card to its response form
func ToRateCardResponse(card *ratecard.RateCard) *RateCardResponse {
	if card == nil {
		return nil
	}

	resp := &RateCardResponse{
		ID:                card.ID,
		TenantID:          card.TenantID,
		Carrier:           card.Carrier,
		ServiceType:       card.ServiceType,
		Status:            string(card.Status),
		CardVersion:       card.CardVersion,
		PreviousVersionID: card.PreviousVersionID,
		EffectiveFrom:     card.EffectiveFrom,
		EffectiveTo:       card.EffectiveTo,
		CreatedAt:         card.CreatedAt,
		UpdatedAt:         card.UpdatedAt,
	}

	resp.BaseRates = make([]BaseRateDTO, len(card.BaseRates))
	for i, br := range card.BaseRates {
		resp.BaseRates[i] = BaseRateDTO{
			MinWeightKg: br.MinWeightKg,
			MaxWeightKg: br.MaxWeightKg,
			BasePrice:   br.BasePrice,
		}
	}
	for _, wr := range card.WeightRules {
		resp.WeightRules = append(resp.WeightRules, WeightRuleDTO{
			FromKg: wr.FromKg,
			ToKg:   wr.ToKg,
			PerKg:  wr.PerKg,
		})
	}
	for _, zr := range card.ZoneRules {
		resp.ZoneRules = append(resp.ZoneRules, ZoneRuleDTO{
			Zone:   string(zr.Zone),
			Charge: zr.Charge,
		})
	}
	for _, o := range card.CustomerOverrides {
		resp.CustomerOverrides = append(resp.CustomerOverrides, CustomerOverrideDTO{
			CustomerID: o.CustomerID,
			Kind:       string(o.Kind),
			Value:      o.Value,
		})
	}

	return resp
}

// ToRateCardListResponse converts a version history to its response form
func ToRateCardListResponse(cards []*ratecard.RateCard) []RateCardResponse {
	responses := make([]RateCardResponse, len(cards))
	for i, card := range cards {
		responses[i] = *ToRateCardResponse(card)
	}
	return responses
}
