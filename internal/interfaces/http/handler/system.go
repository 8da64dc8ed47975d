package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shipstack/backend/internal/infrastructure/persistence"
	"github.com/shipstack/backend/internal/interfaces/http/dto"
)

// DatabaseReporter is the slice of the persistence layer the system
// endpoints report on: reachability and pool pressure.
type DatabaseReporter interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	db        DatabaseReporter
}

// NewSystemHandler creates a new SystemHandler. db may be nil, in which
// case readiness only reports process liveness.
func NewSystemHandler(db DatabaseReporter) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		db:        db,
	}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/health", h.Health)
		system.GET("/info", h.GetSystemInfo)
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "ShipStack Pricing API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping checks that the API is responsive
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// HealthResponse reports readiness of the service and its dependencies
type HealthResponse struct {
	Status   string                       `json:"status"`
	Database string                       `json:"database,omitempty"`
	Pool     *persistence.ConnectionStats `json:"pool,omitempty"`
}

// Health reports whether the service can serve quotes. The database is the
// only hard dependency; the price cache degrades to direct calculation.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
		resp.Database = "ok"
		if stats, err := h.db.Stats(); err == nil {
			resp.Pool = &stats
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
