package services

import (
	"errors"
	"strings"
	"time"

	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/internal/utils"
	"github.com/mujtama/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationNotPending    = errors.New("invitation already resolved")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationEmailMismatch = errors.New("invitation was issued for a different email")
	ErrInviteeAlreadyMember    = errors.New("invitee is already a member")
	ErrNotActiveMember         = errors.New("only active members can invite")
)

// InvitationService issues and resolves email invitations to communities.
type InvitationService struct {
	db        *gorm.DB
	memberSvc *MemberService
	emailSvc  *EmailService
	notifSvc  *NotificationService
	configSvc *SystemConfigService
}

func NewInvitationService(db *gorm.DB, memberSvc *MemberService) *InvitationService {
	return &InvitationService{
		db:        db,
		memberSvc: memberSvc,
		emailSvc:  NewEmailService(db),
		notifSvc:  NewNotificationService(db),
		configSvc: NewSystemConfigService(db),
	}
}

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// InvitationView is the public shape returned for token lookups, so an
// invitee can see what they are joining before signing in.
type InvitationView struct {
	Token         string    `json:"token"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	InviteeEmail  string    `json:"invitee_email"`
	InviterName   string    `json:"inviter_name"`
	CommunityID   uint      `json:"community_id"`
	CommunityName string    `json:"community_name"`
	Goal          string    `json:"goal"`
	StakingAmount float64   `json:"staking_amount"`
	StartDate     time.Time `json:"start_date"`
	Deadline      time.Time `json:"deadline"`
}

// Create issues an invitation to an email address. Only active members (the
// creator included) of a still-open community may invite. The invite email is
// sent best-effort; the invitation exists regardless.
func (s *InvitationService) Create(communityID, inviterID uint, req *CreateInvitationRequest) (*models.Invitation, error) {
	var community models.Community
	if err := s.db.First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	if !community.IsOpenForJoin() {
		return nil, ErrCommunityClosed
	}

	member, err := s.memberSvc.GetMembership(communityID, inviterID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return nil, ErrNotActiveMember
		}
		return nil, err
	}
	if member.Status != models.MemberStatusActive {
		return nil, ErrNotActiveMember
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// An existing user with this email who already joined needs no invite.
	var invitee models.User
	inviteeErr := s.db.Where("email = ?", email).First(&invitee).Error
	if inviteeErr == nil {
		var count int64
		s.db.Model(&models.CommunityMember{}).
			Where("community_id = ? AND user_id = ?", communityID, invitee.ID).
			Count(&count)
		if count > 0 {
			return nil, ErrInviteeAlreadyMember
		}
	}

	expiryHours := s.configSvc.GetInt("invitation_expiry_hours", 168)

	invitation := models.Invitation{
		Token:        utils.NewInvitationToken(),
		CommunityID:  communityID,
		InviterID:    inviterID,
		InviteeEmail: email,
		Status:       models.InvitationStatusPending,
		ExpiresAt:    time.Now().Add(time.Duration(expiryHours) * time.Hour),
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	var inviter models.User
	if err := s.db.First(&inviter, inviterID).Error; err == nil {
		if err := s.emailSvc.SendInvitationEmail(&invitation, &community, &inviter); err != nil {
			logger.Warnf("[Invitation] Email to %s failed: %v", email, err)
		}
	}

	if inviteeErr == nil {
		cid := community.ID
		title := "You have been invited to " + community.Name
		if err := s.notifSvc.Create(invitee.ID, models.NotificationTypeInvitation, title, community.Goal, &cid); err != nil {
			logger.Warnf("[Invitation] Notification for user %d failed: %v", invitee.ID, err)
		}
	}

	return &invitation, nil
}

// GetByToken resolves an invitation token to its public view.
func (s *InvitationService) GetByToken(token string) (*InvitationView, error) {
	var invitation models.Invitation
	err := s.db.Where("token = ?", token).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}

	var community models.Community
	if err := s.db.First(&community, invitation.CommunityID).Error; err != nil {
		return nil, err
	}

	inviterName := ""
	var inviter models.User
	if err := s.db.First(&inviter, invitation.InviterID).Error; err == nil {
		inviterName = inviter.DisplayName
		if inviterName == "" {
			inviterName = inviter.Username
		}
	}

	status := invitation.Status
	if status == models.InvitationStatusPending && invitation.IsExpired() {
		status = models.InvitationStatusExpired
	}

	return &InvitationView{
		Token:         invitation.Token,
		Status:        status,
		ExpiresAt:     invitation.ExpiresAt,
		InviteeEmail:  invitation.InviteeEmail,
		InviterName:   inviterName,
		CommunityID:   community.ID,
		CommunityName: community.Name,
		Goal:          community.Goal,
		StakingAmount: community.StakingAmount,
		StartDate:     community.StartDate,
		Deadline:      community.Deadline,
	}, nil
}

// ListForCommunity returns a community's invitations, newest first.
// Active members only.
func (s *InvitationService) ListForCommunity(communityID, userID uint) ([]models.Invitation, error) {
	member, err := s.memberSvc.GetMembership(communityID, userID)
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusActive {
		return nil, ErrNotActiveMember
	}

	var invitations []models.Invitation
	err = s.db.Where("community_id = ?", communityID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Accept resolves the invitation and creates a pending membership for the
// user. The caller's account email must match the invitee email.
func (s *InvitationService) Accept(token string, userID uint) (*models.CommunityMember, error) {
	invitation, err := s.actionableInvitation(token, userID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberSvc.Join(invitation.CommunityID, userID)
	if err != nil && !errors.Is(err, ErrAlreadyMember) {
		return nil, err
	}

	if err := s.db.Model(invitation).Update("status", models.InvitationStatusAccepted).Error; err != nil {
		return nil, err
	}

	if member == nil {
		// Already joined through another path; the invite is still consumed.
		return s.memberSvc.GetMembership(invitation.CommunityID, userID)
	}
	return member, nil
}

// Decline resolves the invitation without joining.
func (s *InvitationService) Decline(token string, userID uint) error {
	invitation, err := s.actionableInvitation(token, userID)
	if err != nil {
		return err
	}
	return s.db.Model(invitation).Update("status", models.InvitationStatusDeclined).Error
}

// actionableInvitation loads an invitation and checks it can be acted on by
// this user: pending, unexpired, and addressed to the user's email.
func (s *InvitationService) actionableInvitation(token string, userID uint) (*models.Invitation, error) {
	var invitation models.Invitation
	err := s.db.Where("token = ?", token).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}

	if invitation.Status != models.InvitationStatusPending {
		return nil, ErrInvitationNotPending
	}
	if invitation.IsExpired() {
		return nil, ErrInvitationExpired
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, invitation.InviteeEmail) {
		return nil, ErrInvitationEmailMismatch
	}

	return &invitation, nil
}

// ExpireStale marks pending invitations past their expiry as declined. Runs
// from the lifecycle scheduler.
func (s *InvitationService) ExpireStale(now time.Time) (int64, error) {
	result := s.db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationStatusPending, now).
		Update("status", models.InvitationStatusDeclined)
	return result.RowsAffected, result.Error
}
