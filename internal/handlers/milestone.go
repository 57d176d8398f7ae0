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

type MilestoneHandler struct {
	milestoneService *services.MilestoneService
}

func NewMilestoneHandler(db *gorm.DB) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: services.NewMilestoneService(db),
	}
}

// Create adds a milestone to a community (creator-only)
// POST /api/communities/:id/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	var req services.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	milestone, err := h.milestoneService.Create(uint(communityID), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommunityNotFound):
			response.NotFound(c, "community not found")
		case errors.Is(err, services.ErrNotCreator):
			response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrWeightNotPositive):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, milestone)
}

// List returns a community's milestones with completion stats
// GET /api/communities/:id/milestones
func (h *MilestoneHandler) List(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	userID := middleware.GetUserID(c)
	milestones, err := h.milestoneService.List(uint(communityID), userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, milestones)
}

// Complete records a milestone completion for the caller
// POST /api/milestones/:id/complete
func (h *MilestoneHandler) Complete(c *gin.Context) {
	milestoneID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid milestone id")
		return
	}

	var req services.CompleteMilestoneRequest
	_ = c.ShouldBindJSON(&req)

	userID := middleware.GetUserID(c)
	completion, err := h.milestoneService.Complete(uint(milestoneID), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMilestoneNotFound):
			response.NotFound(c, "milestone not found")
		case errors.Is(err, services.ErrMembershipNotFound):
			response.Forbidden(c, "not a member of this community")
		case errors.Is(err, services.ErrMemberNotActive):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, completion)
}
