package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/pkg/response"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	logService *services.SystemLogService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{
		logService: services.NewSystemLogService(db),
	}
}

// List returns paginated system logs
// GET /api/admin/logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetModules returns the distinct modules present in the log table
// GET /api/admin/logs/modules
func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.logService.GetModules()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, modules)
}
