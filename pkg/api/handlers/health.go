package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/homectl/pkg/api/types"
	"github.com/urmzd/homectl/pkg/home"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	platform home.Platform
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(platform home.Platform) *HealthHandler {
	return &HealthHandler{platform: platform}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the home platform
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	homes, err := h.platform.Homes(c.Request.Context())

	platformStatus := "authorized"
	switch {
	case errors.Is(err, home.ErrUnauthorized):
		platformStatus = "unauthorized"
	case err != nil:
		platformStatus = "error"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Platform:  platformStatus,
		Homes:     len(homes),
		Timestamp: time.Now(),
	})
}
