package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/middleware"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/pkg/response"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notificationService: services.NewNotificationService(db),
	}
}

// List returns the caller's notifications
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req services.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.notificationService.List(userID, &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// MarkRead marks one notification as read
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.notificationService.MarkRead(uint(id), userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "marked as read"})
}

// MarkAllRead marks all of the caller's notifications as read
// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	count, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"marked": count})
}
