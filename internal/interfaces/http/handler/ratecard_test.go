package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ratecardapp "github.com/shipstack/backend/internal/application/ratecard"
	"github.com/shipstack/backend/internal/domain/ratecard"
	"github.com/shipstack/backend/internal/domain/shared"
	"github.com/shipstack/backend/internal/infrastructure/cache"
	httpdto "github.com/shipstack/backend/internal/interfaces/http/dto"
)

func setupRateCardRouter(repo ratecard.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := ratecardapp.NewAdminService(repo, cache.NewNoopPriceCache(), zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewRateCardHandler(svc).RegisterRoutes(api)
	return engine
}

func createCardBody(tenantID uuid.UUID) map[string]any {
	return map[string]any{
		"tenant_id":      tenantID,
		"carrier":        "bluedart",
		"service_type":   "express",
		"effective_from": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"base_rates": []map[string]any{
			{"min_weight_kg": "0", "max_weight_kg": "0.5", "base_price": "40"},
			{"min_weight_kg": "0.5", "max_weight_kg": "2", "base_price": "60"},
		},
		"zone_rules": []map[string]any{
			{"zone": "A", "charge": "10"},
		},
	}
}

func TestRateCardHandler_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a draft version", func(t *testing.T) {
		repo := new(MockRateCardRepository)
		repo.On("CreateVersion", mock.Anything, mock.AnythingOfType("*ratecard.RateCard")).Return(nil)

		engine := setupRateCardRouter(repo)
		w := postJSON(t, engine, "/api/v1/rate-cards", createCardBody(tenantID))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp httpdto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "draft", data["status"])
		assert.Equal(t, float64(1), data["card_version"])
		repo.AssertExpectations(t)
	})

	t.Run("missing base rates are a 400", func(t *testing.T) {
		engine := setupRateCardRouter(new(MockRateCardRepository))

		body := createCardBody(tenantID)
		delete(body, "base_rates")
		w := postJSON(t, engine, "/api/v1/rate-cards", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid rules are a 422", func(t *testing.T) {
		engine := setupRateCardRouter(new(MockRateCardRepository))

		body := createCardBody(tenantID)
		body["base_rates"] = []map[string]any{
			// Overlapping slabs fail domain validation
			{"min_weight_kg": "0", "max_weight_kg": "1", "base_price": "40"},
			{"min_weight_kg": "0.5", "max_weight_kg": "2", "base_price": "60"},
		}
		w := postJSON(t, engine, "/api/v1/rate-cards", body)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp httpdto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, httpdto.ErrCodeValidation, resp.Error.Code)
	})
}

func TestRateCardHandler_Promote(t *testing.T) {
	tenantID := uuid.New()

	promotedCard := func(t *testing.T) *ratecard.RateCard {
		t.Helper()
		card := activeTestCard(t, tenantID, "bluedart", "express")
		return card
	}

	t.Run("promotes a draft", func(t *testing.T) {
		repo := new(MockRateCardRepository)
		card := promotedCard(t)
		repo.On("Promote", mock.Anything, card.ID).Return(card, nil)

		engine := setupRateCardRouter(repo)
		w := postJSON(t, engine, "/api/v1/rate-cards/"+card.ID.String()+"/promote", nil)

		require.Equal(t, http.StatusOK, w.Code)

		var resp httpdto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "active", data["status"])
	})

	t.Run("lost promotion race is a 409", func(t *testing.T) {
		repo := new(MockRateCardRepository)
		id := uuid.New()
		repo.On("Promote", mock.Anything, id).Return(nil, shared.ErrPromotionConflict)

		engine := setupRateCardRouter(repo)
		w := postJSON(t, engine, "/api/v1/rate-cards/"+id.String()+"/promote", nil)

		require.Equal(t, http.StatusConflict, w.Code)

		var resp httpdto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, httpdto.ErrCodePromotionConflict, resp.Error.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		engine := setupRateCardRouter(new(MockRateCardRepository))

		w := postJSON(t, engine, "/api/v1/rate-cards/not-a-uuid/promote", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRateCardHandler_Get(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns a card by id", func(t *testing.T) {
		repo := new(MockRateCardRepository)
		card := activeTestCard(t, tenantID, "bluedart", "express")
		repo.On("FindByID", mock.Anything, card.ID).Return(card, nil)

		engine := setupRateCardRouter(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rate-cards/"+card.ID.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp httpdto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, card.ID.String(), data["id"])
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		repo := new(MockRateCardRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		engine := setupRateCardRouter(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rate-cards/"+id.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRateCardHandler_ListVersions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("lists version history for a scope", func(t *testing.T) {
		repo := new(MockRateCardRepository)
		card := activeTestCard(t, tenantID, "bluedart", "express")
		repo.On("ListVersions", mock.Anything, tenantID, "bluedart", "express").
			Return([]*ratecard.RateCard{card}, nil)

		engine := setupRateCardRouter(repo)

		url := "/api/v1/rate-cards?tenant_id=" + tenantID.String() + "&carrier=bluedart&service_type=express"
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp httpdto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		versions := resp.Data.([]any)
		require.Len(t, versions, 1)
	})

	t.Run("missing scope filter is a 400", func(t *testing.T) {
		engine := setupRateCardRouter(new(MockRateCardRepository))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rate-cards?carrier=bluedart", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
