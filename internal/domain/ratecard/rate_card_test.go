package ratecard

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() ([]BaseRate, []WeightRule, []ZoneRule, []CustomerOverride) {
	baseRates := []BaseRate{
		{MinWeightKg: d("0"), MaxWeightKg: d("0.5"), BasePrice: d("40")},
		{MinWeightKg: d("0.5"), MaxWeightKg: d("2"), BasePrice: d("60")},
	}
	weightRules := []WeightRule{
		{FromKg: d("2"), ToKg: d("5"), PerKg: d("20")},
		{FromKg: d("5"), PerKg: d("15")},
	}
	zoneRules := []ZoneRule{
		{Zone: geography.ZoneMetro, Charge: d("10")},
		{Zone: geography.ZoneRestOfCountry, Charge: d("45")},
	}
	return baseRates, weightRules, zoneRules, nil
}

func newDraftCard(t *testing.T) *RateCard {
	t.Helper()
	card, err := NewDraft(uuid.New(), "bluedart", "express", time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)
	base, weight, zone, overrides := testRules()
	require.NoError(t, card.SetRules(base, weight, zone, overrides))
	return card
}

func TestNewDraft(t *testing.T) {
	t.Run("valid draft", func(t *testing.T) {
		card, err := NewDraft(uuid.New(), "bluedart", "express", time.Now(), nil)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, card.Status)
		assert.Equal(t, 1, card.CardVersion)
		assert.Nil(t, card.PreviousVersionID)
		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Len(t, card.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeRateCardDrafted, card.GetDomainEvents()[0].EventType())
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := NewDraft(uuid.Nil, "bluedart", "express", time.Now(), nil)
		assert.Error(t, err)
	})

	t.Run("missing carrier", func(t *testing.T) {
		_, err := NewDraft(uuid.New(), "", "express", time.Now(), nil)
		assert.Error(t, err)
	})

	t.Run("inverted effective window", func(t *testing.T) {
		from := time.Now()
		to := from.Add(-time.Hour)
		_, err := NewDraft(uuid.New(), "bluedart", "express", from, &to)
		assert.Error(t, err)
	})
}

func TestNewDraftFrom(t *testing.T) {
	prev := newDraftCard(t)
	require.NoError(t, prev.Activate(time.Now()))

	next, err := NewDraftFrom(prev, time.Now(), nil)
	require.NoError(t, err)

	assert.Equal(t, prev.TenantID, next.TenantID)
	assert.Equal(t, prev.Carrier, next.Carrier)
	assert.Equal(t, prev.ServiceType, next.ServiceType)
	assert.Equal(t, prev.CardVersion+1, next.CardVersion)
	require.NotNil(t, next.PreviousVersionID)
	assert.Equal(t, prev.ID, *next.PreviousVersionID)
	assert.Equal(t, StatusDraft, next.Status)
	assert.Equal(t, prev.BaseRates, next.BaseRates)

	// The copy must be independent of the predecessor's slices
	next.BaseRates[0].BasePrice = d("999")
	assert.False(t, prev.BaseRates[0].BasePrice.Equal(d("999")))
}

func TestSetRules(t *testing.T) {
	t.Run("sorts slabs and weight rules", func(t *testing.T) {
		card, err := NewDraft(uuid.New(), "bluedart", "express", time.Now(), nil)
		require.NoError(t, err)
		err = card.SetRules(
			[]BaseRate{
				{MinWeightKg: d("0.5"), MaxWeightKg: d("2"), BasePrice: d("60")},
				{MinWeightKg: d("0"), MaxWeightKg: d("0.5"), BasePrice: d("40")},
			},
			[]WeightRule{
				{FromKg: d("5"), PerKg: d("15")},
				{FromKg: d("2"), ToKg: d("5"), PerKg: d("20")},
			},
			nil, nil,
		)
		require.NoError(t, err)
		assert.True(t, card.BaseRates[0].MinWeightKg.IsZero())
		assert.True(t, card.WeightRules[0].FromKg.Equal(d("2")))
	})

	t.Run("requires at least one slab", func(t *testing.T) {
		card, err := NewDraft(uuid.New(), "bluedart", "express", time.Now(), nil)
		require.NoError(t, err)
		assert.Error(t, card.SetRules(nil, nil, nil, nil))
	})

	t.Run("rejects edits on non-draft", func(t *testing.T) {
		card := newDraftCard(t)
		require.NoError(t, card.Activate(time.Now()))
		base, weight, zone, overrides := testRules()
		err := card.SetRules(base, weight, zone, overrides)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInvalidState.Code, domainErr.Code)
	})
}

func TestActivate(t *testing.T) {
	t.Run("activates within window", func(t *testing.T) {
		card := newDraftCard(t)
		require.NoError(t, card.Activate(time.Now()))
		assert.Equal(t, StatusActive, card.Status)
		events := card.GetDomainEvents()
		assert.Equal(t, EventTypeRateCardPromoted, events[len(events)-1].EventType())
	})

	t.Run("window not started", func(t *testing.T) {
		card, err := NewDraft(uuid.New(), "bluedart", "express", time.Now().Add(time.Hour), nil)
		require.NoError(t, err)
		base, weight, zone, overrides := testRules()
		require.NoError(t, card.SetRules(base, weight, zone, overrides))
		assert.Error(t, card.Activate(time.Now()))
	})

	t.Run("window already ended", func(t *testing.T) {
		from := time.Now().Add(-2 * time.Hour)
		to := time.Now().Add(-time.Hour)
		card, err := NewDraft(uuid.New(), "bluedart", "express", from, &to)
		require.NoError(t, err)
		base, weight, zone, overrides := testRules()
		require.NoError(t, card.SetRules(base, weight, zone, overrides))
		assert.Error(t, card.Activate(time.Now()))
	})

	t.Run("no slabs configured", func(t *testing.T) {
		card, err := NewDraft(uuid.New(), "bluedart", "express", time.Now().Add(-time.Hour), nil)
		require.NoError(t, err)
		assert.Error(t, card.Activate(time.Now()))
	})

	t.Run("inactive cannot be reactivated", func(t *testing.T) {
		card := newDraftCard(t)
		require.NoError(t, card.Activate(time.Now()))
		require.NoError(t, card.Deactivate(time.Now()))
		assert.Error(t, card.Activate(time.Now()))
	})
}

func TestDeactivateIsIdempotent(t *testing.T) {
	card := newDraftCard(t)
	require.NoError(t, card.Activate(time.Now()))
	require.NoError(t, card.Deactivate(time.Now()))
	require.NoError(t, card.Deactivate(time.Now()))
	assert.Equal(t, StatusInactive, card.Status)
}

func TestSlabLookups(t *testing.T) {
	card := newDraftCard(t)

	t.Run("slab for weight", func(t *testing.T) {
		slab, ok := card.SlabFor(d("0.3"))
		require.True(t, ok)
		assert.True(t, slab.BasePrice.Equal(d("40")))

		slab, ok = card.SlabFor(d("1.0"))
		require.True(t, ok)
		assert.True(t, slab.BasePrice.Equal(d("60")))

		_, ok = card.SlabFor(d("3"))
		assert.False(t, ok)
	})

	t.Run("top slab", func(t *testing.T) {
		top, ok := card.TopSlab()
		require.True(t, ok)
		assert.True(t, top.MaxWeightKg.Equal(d("2")))
	})

	t.Run("weight rule for excess", func(t *testing.T) {
		rule, ok := card.WeightRuleFor(d("2.3"))
		require.True(t, ok)
		assert.True(t, rule.PerKg.Equal(d("20")))

		rule, ok = card.WeightRuleFor(d("7"))
		require.True(t, ok)
		assert.True(t, rule.PerKg.Equal(d("15")))

		// Beyond every range the highest rule still applies
		rule, ok = card.WeightRuleFor(d("500"))
		require.True(t, ok)
		assert.True(t, rule.PerKg.Equal(d("15")))
	})

	t.Run("zone charge absent means zero", func(t *testing.T) {
		assert.True(t, card.ZoneChargeFor(geography.ZoneMetro).Equal(d("10")))
		assert.True(t, card.ZoneChargeFor(geography.ZoneSpecialRegion).IsZero())
	})
}

func TestNoActiveRateCardError(t *testing.T) {
	err := &NoActiveRateCardError{TenantID: uuid.New(), Scope: Scope{Carrier: "bluedart", ServiceType: "express"}}
	assert.True(t, errors.Is(err, shared.ErrNoActiveRateCard))
	assert.Contains(t, err.Error(), "bluedart/express")
}
