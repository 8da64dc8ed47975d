package handler

import (
	"github.com/gin-gonic/gin"

	pricingapp "github.com/shipstack/backend/internal/application/pricing"
	"github.com/shipstack/backend/internal/application/pricing/dto"
	"github.com/shipstack/backend/internal/interfaces/http/middleware"
)

// PricingHandler handles quote and comparison HTTP requests
type PricingHandler struct {
	BaseHandler
	quoteService *pricingapp.QuoteService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(quoteService *pricingapp.QuoteService) *PricingHandler {
	return &PricingHandler{quoteService: quoteService}
}

// RegisterRoutes registers pricing routes on the given group
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing")
	{
		pricing.POST("/quote", h.Quote)
		pricing.POST("/compare", h.Compare)
	}
}

// Quote prices a single shipment for one carrier and service type
func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BindError(c, err)
		return
	}

	breakdown, err := h.quoteService.Quote(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ToBreakdownResponse(breakdown))
}

// Compare prices a shipment across every carrier the tenant has an active
// rate card for and returns the quotes ranked by total price
func (h *PricingHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BindError(c, err)
		return
	}

	quotes, err := h.quoteService.Compare(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ToCompareResponse(quotes))
}
