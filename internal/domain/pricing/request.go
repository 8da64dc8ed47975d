package pricing

import (
	"github.com/google/uuid"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMode is how the consignee pays for the shipment
type PaymentMode string

const (
	PaymentModePrepaid PaymentMode = "prepaid"
	PaymentModeCOD     PaymentMode = "cod"
)

// IsValid reports whether the payment mode is known
func (m PaymentMode) IsValid() bool {
	return m == PaymentModePrepaid || m == PaymentModeCOD
}

// Dimensions are the parcel dimensions in centimetres
type Dimensions struct {
	LengthCm decimal.Decimal `json:"length_cm"`
	WidthCm  decimal.Decimal `json:"width_cm"`
	HeightCm decimal.Decimal `json:"height_cm"`
}

// Request is an ephemeral pricing request. It is never persisted; the
// breakdown it produces is the audit artifact.
type Request struct {
	TenantID      uuid.UUID
	OriginPostal  string
	DestPostal    string
	WeightKg      decimal.Decimal
	Dimensions    Dimensions
	PaymentMode   PaymentMode
	DeclaredValue decimal.Decimal
	Carrier       string    // required for Quote, ignored by Compare
	ServiceType   string    // required for Quote, ignored by Compare
	CustomerID    uuid.UUID // optional, enables customer overrides
}

// Validate checks the request shape. Malformed input is surfaced to the
// caller and never retried or defaulted.
func (r Request) Validate(forCompare bool) error {
	if r.TenantID == uuid.Nil {
		return shared.NewDomainError(shared.ErrValidation.Code, "pricing request requires a tenant")
	}
	if err := geography.ValidatePostal(r.OriginPostal); err != nil {
		return err
	}
	if err := geography.ValidatePostal(r.DestPostal); err != nil {
		return err
	}
	if !r.WeightKg.IsPositive() {
		return shared.NewDomainError(shared.ErrValidation.Code, "weight must be positive")
	}
	if !r.PaymentMode.IsValid() {
		return shared.NewDomainError(shared.ErrValidation.Code, "unknown payment mode: "+string(r.PaymentMode))
	}
	if r.DeclaredValue.IsNegative() {
		return shared.NewDomainError(shared.ErrValidation.Code, "declared value cannot be negative")
	}
	if r.PaymentMode == PaymentModeCOD && !r.DeclaredValue.IsPositive() {
		return shared.NewDomainError(shared.ErrValidation.Code, "cod shipments require a declared value")
	}
	if !forCompare {
		if r.Carrier == "" {
			return shared.NewDomainError(shared.ErrValidation.Code, "pricing request requires a carrier")
		}
		if r.ServiceType == "" {
			return shared.NewDomainError(shared.ErrValidation.Code, "pricing request requires a service type")
		}
	}
	return nil
}
