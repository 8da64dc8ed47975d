package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so errors.Is works against the shared
// sentinels regardless of the message
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation          = NewDomainError("VALIDATION_FAILED", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnserviceableRoute  = NewDomainError("UNSERVICEABLE_ROUTE", "Route is not serviceable")
	ErrNoActiveRateCard    = NewDomainError("NO_ACTIVE_RATE_CARD", "No active rate card for the requested scope")
	ErrPromotionConflict   = NewDomainError("PROMOTION_CONFLICT", "Rate card promotion lost a concurrent race")
	ErrCacheUnavailable    = NewDomainError("CACHE_UNAVAILABLE", "Pricing cache backend is unreachable")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
