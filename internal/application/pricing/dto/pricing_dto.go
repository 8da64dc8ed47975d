package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipstack/backend/internal/domain/pricing"
)

// DimensionsDTO carries parcel dimensions in centimetres
type DimensionsDTO struct {
	LengthCm decimal.Decimal `json:"length_cm"`
	WidthCm  decimal.Decimal `json:"width_cm"`
	HeightCm decimal.Decimal `json:"height_cm"`
}

// QuoteRequest is the single-carrier pricing request payload
type QuoteRequest struct {
	TenantID      uuid.UUID       `json:"tenant_id" binding:"required"`
	OriginPostal  string          `json:"origin_postal" binding:"required"`
	DestPostal    string          `json:"dest_postal" binding:"required"`
	WeightKg      decimal.Decimal `json:"weight_kg" binding:"required"`
	Dimensions    *DimensionsDTO  `json:"dimensions,omitempty"`
	PaymentMode   string          `json:"payment_mode" binding:"required,oneof=prepaid cod"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	Carrier       string          `json:"carrier" binding:"required"`
	ServiceType   string          `json:"service_type" binding:"required"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
}

// CompareRequest is the multi-carrier comparison payload. Carrier and
// service type are resolved from the tenant's active scopes.
type CompareRequest struct {
	TenantID      uuid.UUID       `json:"tenant_id" binding:"required"`
	OriginPostal  string          `json:"origin_postal" binding:"required"`
	DestPostal    string          `json:"dest_postal" binding:"required"`
	WeightKg      decimal.Decimal `json:"weight_kg" binding:"required"`
	Dimensions    *DimensionsDTO  `json:"dimensions,omitempty"`
	PaymentMode   string          `json:"payment_mode" binding:"required,oneof=prepaid cod"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
}

// ToDomain converts a QuoteRequest to the domain pricing request
func (r QuoteRequest) ToDomain() pricing.Request {
	req := pricing.Request{
		TenantID:      r.TenantID,
		OriginPostal:  r.OriginPostal,
		DestPostal:    r.DestPostal,
		WeightKg:      r.WeightKg,
		PaymentMode:   pricing.PaymentMode(r.PaymentMode),
		DeclaredValue: r.DeclaredValue,
		Carrier:       r.Carrier,
		ServiceType:   r.ServiceType,
	}
	if r.Dimensions != nil {
		req.Dimensions = pricing.Dimensions{
			LengthCm: r.Dimensions.LengthCm,
			WidthCm:  r.Dimensions.WidthCm,
			HeightCm: r.Dimensions.HeightCm,
		}
	}
	if r.CustomerID != nil {
		req.CustomerID = *r.CustomerID
	}
	return req
}

// ToDomain converts a CompareRequest to the domain pricing request
func (r CompareRequest) ToDomain() pricing.Request {
	req := pricing.Request{
		TenantID:      r.TenantID,
		OriginPostal:  r.OriginPostal,
		DestPostal:    r.DestPostal,
		WeightKg:      r.WeightKg,
		PaymentMode:   pricing.PaymentMode(r.PaymentMode),
		DeclaredValue: r.DeclaredValue,
	}
	if r.Dimensions != nil {
		req.Dimensions = pricing.Dimensions{
			LengthCm: r.Dimensions.LengthCm,
			WidthCm:  r.Dimensions.WidthCm,
			HeightCm: r.Dimensions.HeightCm,
		}
	}
	if r.CustomerID != nil {
		req.CustomerID = *r.CustomerID
	}
	return req
}

// BreakdownResponse is the price decomposition returned to callers. Amounts
// are fixed two-decimal strings to keep money exact on the wire.
type BreakdownResponse struct {
	RateCardID        *uuid.UUID `json:"rate_card_id,omitempty"`
	RateCardVersion   int        `json:"rate_card_version,omitempty"`
	Carrier           string     `json:"carrier"`
	ServiceType       string     `json:"service_type"`
	Zone              string     `json:"zone"`
	ZoneName          string     `json:"zone_name"`
	PaymentMode       string     `json:"payment_mode"`
	Currency          string     `json:"currency"`
	BaseRate          string     `json:"base_rate"`
	WeightCharge      string     `json:"weight_charge"`
	ZoneCharge        string     `json:"zone_charge"`
	Discount          string     `json:"discount"`
	Subtotal          string     `json:"subtotal"`
	CODSurcharge      string     `json:"cod_surcharge"`
	CGST              string     `json:"cgst"`
	SGST              string     `json:"sgst"`
	IGST              string     `json:"igst"`
	TaxAmount         string     `json:"tax_amount"`
	TotalPrice        string     `json:"total_price"`
	CalculationMethod string     `json:"calculation_method"`
	CalculatedAt      time.Time  `json:"calculated_at"`
}

// ToBreakdownResponse converts a domain breakdown to its response form
func ToBreakdownResponse(b *pricing.Breakdown) *BreakdownResponse {
	if b == nil {
		return nil
	}
	resp := &BreakdownResponse{
		RateCardVersion:   b.RateCardVersion,
		Carrier:           b.Carrier,
		ServiceType:       b.ServiceType,
		Zone:              string(b.Zone),
		ZoneName:          b.Zone.Name(),
		PaymentMode:       string(b.PaymentMode),
		Currency:          string(b.TotalPrice.Currency()),
		BaseRate:          b.BaseRate.StringFixed(2),
		WeightCharge:      b.WeightCharge.StringFixed(2),
		ZoneCharge:        b.ZoneCharge.StringFixed(2),
		Discount:          b.Discount.StringFixed(2),
		Subtotal:          b.Subtotal.StringFixed(2),
		CODSurcharge:      b.CODSurcharge.StringFixed(2),
		CGST:              b.CGST.StringFixed(2),
		SGST:              b.SGST.StringFixed(2),
		IGST:              b.IGST.StringFixed(2),
		TaxAmount:         b.TaxAmount.StringFixed(2),
		TotalPrice:        b.TotalPrice.StringFixed(2),
		CalculationMethod: string(b.CalculationMethod),
		CalculatedAt:      b.CalculatedAt,
	}
	if b.RateCardID != uuid.Nil {
		id := b.RateCardID
		resp.RateCardID = &id
	}
	return resp
}

// RankedQuoteResponse is one entry of a comparison result
type RankedQuoteResponse struct {
	Rank        int                `json:"rank"`
	Recommended bool               `json:"recommended"`
	Breakdown   *BreakdownResponse `json:"breakdown"`
}

// CompareResponse is the ranked multi-carrier comparison result
type CompareResponse struct {
	Quotes []RankedQuoteResponse `json:"quotes"`
}

// ToCompareResponse converts ranked domain quotes to their response form
func ToCompareResponse(quotes []pricing.RankedQuote) *CompareResponse {
	resp := &CompareResponse{Quotes: make([]RankedQuoteResponse, len(quotes))}
	for i, q := range quotes {
		resp.Quotes[i] = RankedQuoteResponse{
			Rank:        q.Rank,
			Recommended: q.Recommended,
			Breakdown:   ToBreakdownResponse(q.Breakdown),
		}
	}
	return resp
}
