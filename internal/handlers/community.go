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

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(db *gorm.DB, cache *services.CacheService) *CommunityHandler {
	return &CommunityHandler{
		communityService: services.NewCommunityService(db, cache),
	}
}

// List returns paginated communities
// GET /api/communities
func (h *CommunityHandler) List(c *gin.Context) {
	var req services.CommunityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.communityService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetByID returns a community by ID
// GET /api/communities/:id
func (h *CommunityHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	community, err := h.communityService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCommunityNotFound) {
			response.NotFound(c, "community not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, community)
}

// Create creates a new community
// POST /api/communities
func (h *CommunityHandler) Create(c *gin.Context) {
	var req services.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	community, err := h.communityService.Create(&req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStartTooSoon),
			errors.Is(err, services.ErrDeadlineTooEarly),
			errors.Is(err, services.ErrStakeNotPositive):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, community)
}

// Update updates a community (creator-only, before start)
// PUT /api/communities/:id
func (h *CommunityHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	var req services.UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	community, err := h.communityService.Update(uint(id), userID, &req)
	if err != nil {
		h.respondCommunityError(c, err)
		return
	}

	response.Success(c, community)
}

// Delete deletes a community (creator-only, before start)
// DELETE /api/communities/:id
func (h *CommunityHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.communityService.Delete(uint(id), userID); err != nil {
		h.respondCommunityError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "community deleted successfully"})
}

func (h *CommunityHandler) respondCommunityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommunityNotFound):
		response.NotFound(c, "community not found")
	case errors.Is(err, services.ErrNotCreator):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCommunityNotPending):
		response.Conflict(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
