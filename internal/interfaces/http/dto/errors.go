package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes
// (shared.DomainError); the constants here cover failures raised by the
// HTTP layer itself.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Domain error codes surfaced over HTTP
const (
	// ErrCodeValidation is used when domain validation rejects the input
	ErrCodeValidation = "VALIDATION_FAILED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeUnserviceableRoute is used when a postal code is outside coverage
	ErrCodeUnserviceableRoute = "UNSERVICEABLE_ROUTE"
	// ErrCodeNoActiveRateCard is used when a tenant scope has no active card
	ErrCodeNoActiveRateCard = "NO_ACTIVE_RATE_CARD"
	// ErrCodePromotionConflict is used when a promotion loses a concurrent race
	ErrCodePromotionConflict = "PROMOTION_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeCacheUnavailable is used when the cache backend is unreachable
	ErrCodeCacheUnavailable = "CACHE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Missing resources -> 404 Not Found. NO_ACTIVE_RATE_CARD is a 404 on
	// purpose: the scope exists as a concept, but nothing is active for it.
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeNoActiveRateCard: http.StatusNotFound,

	// Conflicts -> 409 Conflict
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodePromotionConflict:   http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule rejections -> 422 Unprocessable Entity
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeUnserviceableRoute: http.StatusUnprocessableEntity,

	// Infrastructure
	ErrCodeCacheUnavailable: http.StatusServiceUnavailable,
	ErrCodeInternal:         http.StatusInternalServerError,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
