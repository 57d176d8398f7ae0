package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/pkg/response"
	"gorm.io/gorm"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
}

func NewSystemConfigHandler(db *gorm.DB) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService: services.NewSystemConfigService(db),
	}
}

// GetByGroup returns the config entries of a group
// GET /api/admin/configs/:group
func (h *SystemConfigHandler) GetByGroup(c *gin.Context) {
	configs, err := h.configService.GetByGroup(c.Param("group"))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, configs)
}

// Update sets config values by key
// PUT /api/admin/configs
func (h *SystemConfigHandler) Update(c *gin.Context) {
	var req struct {
		Entries map[string]string `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	for key, value := range req.Entries {
		if err := h.configService.Set(key, value); err != nil {
			response.ServerError(c, err.Error())
			return
		}
	}

	response.Success(c, gin.H{"updated": len(req.Entries)})
}
