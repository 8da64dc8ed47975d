package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipstack/backend/internal/interfaces/http/dto"
)

type carrierBindRequest struct {
	Carrier     string `json:"carrier" binding:"required"`
	ServiceType string `json:"service_type" binding:"required,oneof=surface express"`
	RateCardID  string `json:"rate_card_id" binding:"required,uuid"`
}

func bindTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	engine := gin.New()
	engine.POST("/bind", func(c *gin.Context) {
		var req carrierBindRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			BindError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})
	return engine
}

func postBind(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBindError(t *testing.T) {
	engine := bindTestEngine()

	t.Run("field failures get per-field details with json names", func(t *testing.T) {
		w := postBind(engine, `{"carrier": "bluedart", "service_type": "overnight"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)

		require.Len(t, resp.Error.Details, 2)
		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be one of: surface express", fields["service_type"])
		assert.Equal(t, "This field is required", fields["rate_card_id"])
	})

	t.Run("malformed json is a plain bad request", func(t *testing.T) {
		w := postBind(engine, `{"carrier": `)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid body passes through", func(t *testing.T) {
		w := postBind(engine, `{"carrier": "bluedart", "service_type": "surface", "rate_card_id": "7b0d1c8e-93b4-4b2a-9a41-0f4f4cf9a8e1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFieldMessage(t *testing.T) {
	type ruleSet struct {
		Required string `validate:"required"`
		Min      string `validate:"min=6"`
		MinCount int    `validate:"min=1"`
		OneOf    string `validate:"oneof=prepaid cod"`
		UUID     string `validate:"uuid"`
		Unknown  string `validate:"ip"`
	}

	v := validator.New()
	err := v.Struct(ruleSet{Min: "abc", MinCount: 0, OneOf: "postpaid", UUID: "nope", Unknown: "nope"})
	require.Error(t, err)

	want := map[string]string{
		"Required": "This field is required",
		"Min":      "Must be at least 6 characters",
		"MinCount": "Must be at least 1",
		"OneOf":    "Must be one of: prepaid cod",
		"UUID":     "Invalid UUID format",
		"Unknown":  "Invalid value",
	}

	seen := map[string]bool{}
	for _, e := range err.(validator.ValidationErrors) {
		assert.Equal(t, want[e.StructField()], fieldMessage(e), "field %s", e.StructField())
		seen[e.StructField()] = true
	}
	assert.Len(t, seen, len(want))
}
