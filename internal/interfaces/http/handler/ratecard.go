package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ratecardapp "github.com/shipstack/backend/internal/application/ratecard"
	"github.com/shipstack/backend/internal/application/ratecard/dto"
	httpdto "github.com/shipstack/backend/internal/interfaces/http/dto"
	"github.com/shipstack/backend/internal/interfaces/http/middleware"
)

// RateCardHandler handles rate card administration HTTP requests
type RateCardHandler struct {
	BaseHandler
	adminService *ratecardapp.AdminService
}

// NewRateCardHandler creates a new RateCardHandler
func NewRateCardHandler(adminService *ratecardapp.AdminService) *RateCardHandler {
	return &RateCardHandler{adminService: adminService}
}

// RegisterRoutes registers rate card routes on the given group
func (h *RateCardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cards := rg.Group("/rate-cards")
	{
		cards.POST("", h.Create)
		cards.GET("", h.ListVersions)
		cards.GET("/:id", h.Get)
		cards.POST("/:id/promote", h.Promote)
	}
}

// Create creates a new draft rate card version
func (h *RateCardHandler) Create(c *gin.Context) {
	var req dto.CreateRateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BindError(c, err)
		return
	}

	resp, err := h.adminService.CreateVersion(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Promote activates a draft version and retires its active predecessor
func (h *RateCardHandler) Promote(c *gin.Context) {
	id, ok := h.cardID(c)
	if !ok {
		return
	}

	resp, err := h.adminService.Promote(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a single rate card version by ID
func (h *RateCardHandler) Get(c *gin.Context) {
	id, ok := h.cardID(c)
	if !ok {
		return
	}

	resp, err := h.adminService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListVersions returns the version history for a tenant scope, newest first
func (h *RateCardHandler) ListVersions(c *gin.Context) {
	var filter dto.ListVersionsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.BindError(c, err)
		return
	}

	versions, err := h.adminService.ListVersions(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, versions)
}

// cardID parses the :id path parameter, responding with 400 on failure
func (h *RateCardHandler) cardID(c *gin.Context) (uuid.UUID, bool) {
	var req httpdto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "rate card ID must be a valid UUID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "rate card ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
