package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/middleware"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db),
	}
}

// GetStats returns the caller's dashboard aggregates
// GET /api/dashboard
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	resp, err := h.dashboardService.GetStats(userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
