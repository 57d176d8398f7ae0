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

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(db *gorm.DB) *InvitationHandler {
	walletSvc := services.NewWalletService(db)
	memberSvc := services.NewMemberService(db, walletSvc)
	return &InvitationHandler{
		invitationService: services.NewInvitationService(db, memberSvc),
	}
}

// Create issues an invitation to an email address
// POST /api/communities/:id/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	var req services.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	invitation, err := h.invitationService.Create(uint(communityID), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommunityNotFound):
			response.NotFound(c, "community not found")
		case errors.Is(err, services.ErrNotActiveMember):
			response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrCommunityClosed),
			errors.Is(err, services.ErrInviteeAlreadyMember):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, invitation)
}

// ListForCommunity returns a community's invitations (active members only)
// GET /api/communities/:id/invitations
func (h *InvitationHandler) ListForCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	userID := middleware.GetUserID(c)
	invitations, err := h.invitationService.ListForCommunity(uint(communityID), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMembershipNotFound):
			response.Forbidden(c, "not a member of this community")
		case errors.Is(err, services.ErrNotActiveMember):
			response.Forbidden(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, invitations)
}

// GetByToken resolves an invitation token to its public view
// GET /api/invitations/:token
func (h *InvitationHandler) GetByToken(c *gin.Context) {
	view, err := h.invitationService.GetByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			response.NotFound(c, "invitation not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, view)
}

// Accept accepts the invitation and joins the community
// POST /api/invitations/:token/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)
	member, err := h.invitationService.Accept(c.Param("token"), userID)
	if err != nil {
		h.respondInvitationError(c, err)
		return
	}

	response.Success(c, member)
}

// Decline declines the invitation
// POST /api/invitations/:token/decline
func (h *InvitationHandler) Decline(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.invitationService.Decline(c.Param("token"), userID); err != nil {
		h.respondInvitationError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invitation declined"})
}

func (h *InvitationHandler) respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound):
		response.NotFound(c, "invitation not found")
	case errors.Is(err, services.ErrInvitationEmailMismatch):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvitationNotPending),
		errors.Is(err, services.ErrInvitationExpired),
		errors.Is(err, services.ErrCommunityClosed):
		response.Conflict(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
