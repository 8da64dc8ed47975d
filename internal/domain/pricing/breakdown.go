package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/shared/valueobject"
)

// CalculationMethod distinguishes real rate-card quotes from fallback
// defaults so downstream auditing can tell them apart
type CalculationMethod string

const (
	// CalculationMethodRateCard marks a price computed from an active rate card
	CalculationMethodRateCard CalculationMethod = "rate_card"
	// CalculationMethodFallback marks a static default used when the tenant
	// has no active rate card at all
	CalculationMethodFallback CalculationMethod = "fallback"
)

// Breakdown is the calculator's output: a deterministic price decomposition
// the caller persists as an audit snapshot on the shipment record.
//
// Invariants:
//
//	Subtotal   = BaseRate + WeightCharge + ZoneCharge - Discount (floored at zero)
//	TotalPrice = Subtotal + CODSurcharge + TaxAmount
type Breakdown struct {
	RateCardID        uuid.UUID          `json:"rate_card_id"`
	RateCardVersion   int                `json:"rate_card_version"`
	Carrier           string             `json:"carrier"`
	ServiceType       string             `json:"service_type"`
	Zone              geography.ZoneCode `json:"zone"`
	PaymentMode       PaymentMode        `json:"payment_mode"`
	BaseRate          valueobject.Money  `json:"base_rate"`
	WeightCharge      valueobject.Money  `json:"weight_charge"`
	ZoneCharge        valueobject.Money  `json:"zone_charge"`
	Discount          valueobject.Money  `json:"discount"`
	Subtotal          valueobject.Money  `json:"subtotal"`
	CODSurcharge      valueobject.Money  `json:"cod_surcharge"`
	CGST              valueobject.Money  `json:"cgst"`
	SGST              valueobject.Money  `json:"sgst"`
	IGST              valueobject.Money  `json:"igst"`
	TaxAmount         valueobject.Money  `json:"tax_amount"`
	TotalPrice        valueobject.Money  `json:"total_price"`
	CalculationMethod CalculationMethod  `json:"calculation_method"`
	CalculatedAt      time.Time          `json:"calculated_at"`
}

// PricedEqual reports whether two breakdowns carry identical priced fields,
// ignoring the CalculatedAt audit stamp
func (b *Breakdown) PricedEqual(other *Breakdown) bool {
	return b.RateCardID == other.RateCardID &&
		b.RateCardVersion == other.RateCardVersion &&
		b.Carrier == other.Carrier &&
		b.ServiceType == other.ServiceType &&
		b.Zone == other.Zone &&
		b.PaymentMode == other.PaymentMode &&
		b.BaseRate.Equals(other.BaseRate) &&
		b.WeightCharge.Equals(other.WeightCharge) &&
		b.ZoneCharge.Equals(other.ZoneCharge) &&
		b.Discount.Equals(other.Discount) &&
		b.Subtotal.Equals(other.Subtotal) &&
		b.CODSurcharge.Equals(other.CODSurcharge) &&
		b.CGST.Equals(other.CGST) &&
		b.SGST.Equals(other.SGST) &&
		b.IGST.Equals(other.IGST) &&
		b.TaxAmount.Equals(other.TaxAmount) &&
		b.TotalPrice.Equals(other.TotalPrice) &&
		b.CalculationMethod == other.CalculationMethod
}

// RankedQuote is one entry of a multi-carrier comparison
type RankedQuote struct {
	Breakdown   *Breakdown `json:"breakdown"`
	Rank        int        `json:"rank"`
	Recommended bool       `json:"recommended"`
}
