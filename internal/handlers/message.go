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

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{
		messageService: services.NewMessageService(db),
	}
}

// Post appends a message to the community board
// POST /api/communities/:id/messages
func (h *MessageHandler) Post(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	var req services.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	message, err := h.messageService.Post(uint(communityID), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMembershipNotFound):
			response.Forbidden(c, "not a member of this community")
		case errors.Is(err, services.ErrEmptyMessage):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, message)
}

// List returns the community's messages (members only)
// GET /api/communities/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	var req services.MessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.messageService.List(uint(communityID), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrMembershipNotFound) {
			response.Forbidden(c, "not a member of this community")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
