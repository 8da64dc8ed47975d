package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"validation failures are 422", ErrCodeValidation, http.StatusUnprocessableEntity},
		{"invalid state is 422", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"unserviceable route is 422", ErrCodeUnserviceableRoute, http.StatusUnprocessableEntity},
		{"not found is 404", ErrCodeNotFound, http.StatusNotFound},
		{"no active rate card is 404", ErrCodeNoActiveRateCard, http.StatusNotFound},
		{"promotion conflict is 409", ErrCodePromotionConflict, http.StatusConflict},
		{"already exists is 409", ErrCodeAlreadyExists, http.StatusConflict},
		{"bad request is 400", ErrCodeBadRequest, http.StatusBadRequest},
		{"rate limited is 429", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"cache unavailable is 503", ErrCodeCacheUnavailable, http.StatusServiceUnavailable},
		{"unknown code falls back to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"key": "value"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeNotFound, "Rate card not found")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Rate card not found", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	requestID := "req-abc-123"
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", requestID)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, requestID, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "origin_postal", Message: "must be exactly 6 characters"},
		{Field: "weight_kg", Message: "must be greater than 0"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
}

func TestErrorResponseJSONShape(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Rate card not found", "req-test-123")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)

	// Empty request IDs are omitted from the payload entirely
	raw, err = json.Marshal(NewErrorResponse(ErrCodeNotFound, "x"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "request_id")
}
