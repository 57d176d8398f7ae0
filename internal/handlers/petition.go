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

type PetitionHandler struct {
	petitionService *services.PetitionService
}

func NewPetitionHandler(db *gorm.DB, cache *services.CacheService) *PetitionHandler {
	communitySvc := services.NewCommunityService(db, cache)
	return &PetitionHandler{
		petitionService: services.NewPetitionService(db, communitySvc),
	}
}

// Create opens a petition in a community
// POST /api/communities/:id/petitions
func (h *PetitionHandler) Create(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	var req services.CreatePetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	petition, err := h.petitionService.Create(uint(communityID), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommunityNotFound):
			response.NotFound(c, "community not found")
		case errors.Is(err, services.ErrMembershipNotFound),
			errors.Is(err, services.ErrMemberNotActive):
			response.Forbidden(c, "only active members can petition")
		case errors.Is(err, services.ErrPetitionTypeInvalid),
			errors.Is(err, services.ErrPetitionValueInvalid):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrCommunityClosed),
			errors.Is(err, services.ErrStakeChangeAfterStake):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, petition)
}

// List returns a community's petitions with vote tallies
// GET /api/communities/:id/petitions
func (h *PetitionHandler) List(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	userID := middleware.GetUserID(c)
	petitions, err := h.petitionService.List(uint(communityID), userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, petitions)
}

// Vote records the caller's vote on a petition
// POST /api/petitions/:id/vote
func (h *PetitionHandler) Vote(c *gin.Context) {
	petitionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid petition id")
		return
	}

	var req services.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	result, err := h.petitionService.Vote(uint(petitionID), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPetitionNotFound):
			response.NotFound(c, "petition not found")
		case errors.Is(err, services.ErrMembershipNotFound),
			errors.Is(err, services.ErrMemberNotActive):
			response.Forbidden(c, "only active members can vote")
		case errors.Is(err, services.ErrPetitionNotOpen),
			errors.Is(err, services.ErrAlreadyVoted):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}
