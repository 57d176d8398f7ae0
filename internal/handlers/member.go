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

type MemberHandler struct {
	memberService   *services.MemberService
	progressService *services.ProgressService
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	walletSvc := services.NewWalletService(db)
	return &MemberHandler{
		memberService:   services.NewMemberService(db, walletSvc),
		progressService: services.NewProgressService(db),
	}
}

// Join requests to join a community
// POST /api/communities/:id/join
func (h *MemberHandler) Join(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.memberService.Join(uint(communityID), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommunityNotFound):
			response.NotFound(c, "community not found")
		case errors.Is(err, services.ErrAlreadyMember):
			response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrCommunityClosed):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, member)
}

// ListMembers returns all members of a community
// GET /api/communities/:id/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	resp, err := h.memberService.ListMembers(uint(communityID))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetMyMembership returns the caller's membership in a community
// GET /api/communities/:id/membership
func (h *MemberHandler) GetMyMembership(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid community id")
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.memberService.GetMembership(uint(communityID), userID)
	if err != nil {
		if errors.Is(err, services.ErrMembershipNotFound) {
			response.NotFound(c, "membership not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, member)
}

// AcceptTerms marks the member's terms acceptance
// POST /api/members/:id/accept-terms
func (h *MemberHandler) AcceptTerms(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.memberService.AcceptTerms(uint(memberID), userID)
	if err != nil {
		h.respondMemberError(c, err)
		return
	}

	response.Success(c, member)
}

// ConfirmStake debits the stake from the member's wallet
// POST /api/members/:id/stake
func (h *MemberHandler) ConfirmStake(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.memberService.ConfirmStake(uint(memberID), userID)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientBalance) {
			response.BadRequest(c, err.Error())
			return
		}
		h.respondMemberError(c, err)
		return
	}

	response.Success(c, member)
}

// UpdateProgress overwrites the member's progress value
// PUT /api/members/:id/progress
func (h *MemberHandler) UpdateProgress(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	var req services.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.memberService.UpdateProgress(uint(memberID), userID, &req)
	if err != nil {
		h.respondMemberError(c, err)
		return
	}

	response.Success(c, member)
}

// ListProgress returns the member's progress history
// GET /api/members/:id/progress
func (h *MemberHandler) ListProgress(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	var req services.ProgressLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.progressService.ListLogs(uint(memberID), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// Withdraw removes a pending, unstaked membership
// DELETE /api/members/:id
func (h *MemberHandler) Withdraw(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.memberService.Withdraw(uint(memberID), userID); err != nil {
		h.respondMemberError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "membership withdrawn"})
}

func (h *MemberHandler) respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMembershipNotFound):
		response.NotFound(c, "membership not found")
	case errors.Is(err, services.ErrNotYourMembership):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrMemberNotPending),
		errors.Is(err, services.ErrMemberNotActive),
		errors.Is(err, services.ErrAlreadyStaked):
		response.Conflict(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
