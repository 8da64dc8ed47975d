package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/ratecard"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/shipstack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CalculatorConfig carries the pricing knobs that are external
// configuration rather than rate card data: tax rates, COD surcharge
// policy, and the excess-weight billing unit.
type CalculatorConfig struct {
	// BillingUnitKg is the unit excess weight is rounded up to. Partial
	// units bill as a full unit (industry convention).
	BillingUnitKg decimal.Decimal
	// CODPercent of the declared value, compared against CODMinimum
	CODPercent decimal.Decimal
	// CODMinimum is the flat floor for the COD surcharge
	CODMinimum decimal.Decimal
	// TaxRatePercent is the GST rate applied on subtotal plus COD surcharge
	TaxRatePercent decimal.Decimal
}

// DefaultCalculatorConfig returns the stock pricing knobs
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		BillingUnitKg:  decimal.NewFromInt(1),
		CODPercent:     decimal.NewFromInt(2),
		CODMinimum:     decimal.NewFromInt(50),
		TaxRatePercent: decimal.NewFromInt(18),
	}
}

// Calculator produces deterministic price breakdowns from a resolved zone,
// a rate card, and shipment attributes. It is pure computation: identical
// inputs against an identical rate card version always produce identical
// priced fields; the only wall-clock read is the CalculatedAt audit stamp.
type Calculator struct {
	cfg CalculatorConfig
}

// NewCalculator creates a calculator with the given pricing knobs
func NewCalculator(cfg CalculatorConfig) *Calculator {
	if !cfg.BillingUnitKg.IsPositive() {
		cfg.BillingUnitKg = decimal.NewFromInt(1)
	}
	return &Calculator{cfg: cfg}
}

// Calculate computes the price breakdown for one shipment leg.
// sameState selects the intra-state (CGST+SGST) vs inter-state (IGST)
// tax split.
func (c *Calculator) Calculate(
	card *ratecard.RateCard,
	zone geography.ZoneCode,
	weightKg decimal.Decimal,
	mode PaymentMode,
	declaredValue decimal.Decimal,
	customerID uuid.UUID,
	sameState bool,
) (*Breakdown, error) {
	if !weightKg.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "weight must be positive")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "unknown payment mode: "+string(mode))
	}

	base, weightCharge, err := c.baseAndWeightCharge(card, weightKg)
	if err != nil {
		return nil, err
	}

	zoneCharge := valueobject.NewMoneyINR(card.ZoneChargeFor(zone)).Round(2)

	gross := base.MustAdd(weightCharge).MustAdd(zoneCharge)

	discount := valueobject.ZeroINR()
	if override, ok := card.OverrideFor(customerID); ok {
		discount = valueobject.NewMoneyINR(override.Discount(gross.Amount())).Round(2)
		// The discount is capped at the gross so the subtotal identity
		// holds with the zero floor
		if discount.Amount().GreaterThan(gross.Amount()) {
			discount = gross
		}
	}

	subtotal := gross.MustSubtract(discount).FloorZero()

	codSurcharge := valueobject.ZeroINR()
	if mode == PaymentModeCOD {
		codSurcharge = c.codSurcharge(declaredValue)
	}

	taxable := subtotal.MustAdd(codSurcharge)
	cgst, sgst, igst := c.tax(taxable, sameState)
	taxAmount := cgst.MustAdd(sgst).MustAdd(igst)

	total := taxable.MustAdd(taxAmount)

	return &Breakdown{
		RateCardID:        card.ID,
		RateCardVersion:   card.CardVersion,
		Carrier:           card.Carrier,
		ServiceType:       card.ServiceType,
		Zone:              zone,
		PaymentMode:       mode,
		BaseRate:          base,
		WeightCharge:      weightCharge,
		ZoneCharge:        zoneCharge,
		Discount:          discount,
		Subtotal:          subtotal,
		CODSurcharge:      codSurcharge,
		CGST:              cgst,
		SGST:              sgst,
		IGST:              igst,
		TaxAmount:         taxAmount,
		TotalPrice:        total,
		CalculationMethod: CalculationMethodRateCard,
		CalculatedAt:      time.Now().UTC(),
	}, nil
}

// Fallback builds the breakdown for the no-active-rate-card path: the
// tenant's static default price stands in for the slab base, with no weight,
// zone, or discount components. COD surcharge and GST still apply so the
// fallback total stays plausible for shipment creation.
func (c *Calculator) Fallback(
	defaultPrice decimal.Decimal,
	carrier string,
	serviceType string,
	zone geography.ZoneCode,
	mode PaymentMode,
	declaredValue decimal.Decimal,
	sameState bool,
) *Breakdown {
	base := valueobject.NewMoneyINR(defaultPrice).Round(2)

	codSurcharge := valueobject.ZeroINR()
	if mode == PaymentModeCOD {
		codSurcharge = c.codSurcharge(declaredValue)
	}

	taxable := base.MustAdd(codSurcharge)
	cgst, sgst, igst := c.tax(taxable, sameState)
	taxAmount := cgst.MustAdd(sgst).MustAdd(igst)
	total := taxable.MustAdd(taxAmount)

	return &Breakdown{
		Carrier:           carrier,
		ServiceType:       serviceType,
		Zone:              zone,
		PaymentMode:       mode,
		BaseRate:          base,
		WeightCharge:      valueobject.ZeroINR(),
		ZoneCharge:        valueobject.ZeroINR(),
		Discount:          valueobject.ZeroINR(),
		Subtotal:          base,
		CODSurcharge:      codSurcharge,
		CGST:              cgst,
		SGST:              sgst,
		IGST:              igst,
		TaxAmount:         taxAmount,
		TotalPrice:        total,
		CalculationMethod: CalculationMethodFallback,
		CalculatedAt:      time.Now().UTC(),
	}
}

// baseAndWeightCharge resolves the slab base price and the excess-weight
// charge. Weight inside a slab bills the slab base alone; weight beyond the
// top slab bills the top slab base plus the per-kg rule over the excess,
// with the excess rounded up to the billing unit.
func (c *Calculator) baseAndWeightCharge(card *ratecard.RateCard, weightKg decimal.Decimal) (valueobject.Money, valueobject.Money, error) {
	zero := valueobject.ZeroINR()

	if slab, ok := card.SlabFor(weightKg); ok {
		return valueobject.NewMoneyINR(slab.BasePrice).Round(2), zero, nil
	}

	top, ok := card.TopSlab()
	if !ok {
		return zero, zero, shared.NewDomainError(shared.ErrValidation.Code, "rate card has no base rate slabs configured")
	}
	if weightKg.LessThan(top.MinWeightKg) {
		// Weight below every slab: slabs are misconfigured with a gap
		return zero, zero, shared.NewDomainError(shared.ErrValidation.Code, "no base rate slab covers the requested weight")
	}

	rule, ok := card.WeightRuleFor(weightKg)
	if !ok {
		return zero, zero, shared.NewDomainError(shared.ErrValidation.Code, "weight exceeds base slabs and no weight rule is configured")
	}

	billedExcess := c.billedExcess(weightKg.Sub(top.MaxWeightKg))
	charge := valueobject.NewMoneyINR(rule.PerKg).Multiply(billedExcess).Round(2)

	return valueobject.NewMoneyINR(top.BasePrice).Round(2), charge, nil
}

// billedExcess rounds the raw excess up to the next billing unit
func (c *Calculator) billedExcess(excessKg decimal.Decimal) decimal.Decimal {
	units := excessKg.Div(c.cfg.BillingUnitKg).Ceil()
	return units.Mul(c.cfg.BillingUnitKg)
}

// codSurcharge applies the greater-of policy: the percentage of the
// declared value or the flat minimum, never the sum of both
func (c *Calculator) codSurcharge(declaredValue decimal.Decimal) valueobject.Money {
	pct := valueobject.NewMoneyINR(declaredValue).Percentage(c.cfg.CODPercent).Round(2)
	return valueobject.Max(pct, valueobject.NewMoneyINR(c.cfg.CODMinimum).Round(2))
}

// tax splits GST into two half-rate components for intra-state routes and
// one full-rate component for inter-state routes
func (c *Calculator) tax(taxable valueobject.Money, sameState bool) (cgst, sgst, igst valueobject.Money) {
	zero := valueobject.ZeroINR()
	if sameState {
		half := taxable.Percentage(c.cfg.TaxRatePercent).Half().Round(2)
		return half, half, zero
	}
	return zero, zero, taxable.Percentage(c.cfg.TaxRatePercent).Round(2)
}
