package ratecard

import (
	"github.com/shipstack/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeRateCardDrafted     = "ratecard.drafted"
	EventTypeRateCardPromoted    = "ratecard.promoted"
	EventTypeRateCardDeactivated = "ratecard.deactivated"
)

// RateCardDraftedEvent is emitted when a new version is created
type RateCardDraftedEvent struct {
	shared.BaseDomainEvent
	Carrier     string `json:"carrier"`
	ServiceType string `json:"service_type"`
	CardVersion int    `json:"card_version"`
}

// NewRateCardDraftedEvent creates a drafted event
func NewRateCardDraftedEvent(card *RateCard) *RateCardDraftedEvent {
	return &RateCardDraftedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateCardDrafted, card.ID, AggregateTypeRateCard, card.TenantID),
		Carrier:         card.Carrier,
		ServiceType:     card.ServiceType,
		CardVersion:     card.CardVersion,
	}
}

// RateCardPromotedEvent is emitted when a version becomes the active card
// for its scope
type RateCardPromotedEvent struct {
	shared.BaseDomainEvent
	Carrier     string `json:"carrier"`
	ServiceType string `json:"service_type"`
	CardVersion int    `json:"card_version"`
}

// NewRateCardPromotedEvent creates a promoted event
func NewRateCardPromotedEvent(card *RateCard) *RateCardPromotedEvent {
	return &RateCardPromotedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateCardPromoted, card.ID, AggregateTypeRateCard, card.TenantID),
		Carrier:         card.Carrier,
		ServiceType:     card.ServiceType,
		CardVersion:     card.CardVersion,
	}
}

// RateCardDeactivatedEvent is emitted when a version is soft-retired
type RateCardDeactivatedEvent struct {
	shared.BaseDomainEvent
	Carrier     string `json:"carrier"`
	ServiceType string `json:"service_type"`
	CardVersion int    `json:"card_version"`
}

// NewRateCardDeactivatedEvent creates a deactivated event
func NewRateCardDeactivatedEvent(card *RateCard) *RateCardDeactivatedEvent {
	return &RateCardDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateCardDeactivated, card.ID, AggregateTypeRateCard, card.TenantID),
		Carrier:         card.Carrier,
		ServiceType:     card.ServiceType,
		CardVersion:     card.CardVersion,
	}
}
