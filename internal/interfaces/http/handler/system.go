package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innledger/backend/internal/infrastructure/logger"
	"github.com/innledger/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Version is the API version reported by /health and /api/system/info
const Version = "1.0.0"

// Pinger checks a dependency, typically the database
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"InnLedger API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"goVersion" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports whether the API and its database are reachable
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthData}
// @Failure      503 {object} dto.Response{data=HealthData}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	data := HealthData{Status: "ok", Database: "ok", Version: Version}
	if err := h.db.PingContext(ctx); err != nil {
		logger.GetGinLogger(c).Warn("database ping failed", zap.Error(err))
		data.Status = "degraded"
		data.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(data))
		return
	}
	h.Success(c, data)
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "InnLedger API",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
