package services

import (
	"errors"
	"testing"
	"time"

	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/internal/utils"
)

func TestInvitationService_Accept_RejectsExpired(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator")
	invitee := createTestUser(t, db, "invitee")
	community := createTestCommunity(t, db, creator.ID, models.CommunityStatusPending, 25)

	invitation := models.Invitation{
		Token:        utils.NewInvitationToken(),
		CommunityID:  community.ID,
		InviterID:    creator.ID,
		InviteeEmail: invitee.Email,
		Status:       models.InvitationStatusPending,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	if err := db.Create(&invitation).Error; err != nil {
		t.Fatalf("creating invitation: %v", err)
	}

	svc := NewInvitationService(db, NewMemberService(db, NewWalletService(db)))

	if _, err := svc.Accept(invitation.Token, invitee.ID); !errors.Is(err, ErrInvitationExpired) {
		t.Errorf("Accept() error = %v, expected %v", err, ErrInvitationExpired)
	}

	// The refused accept must not have created a membership or consumed
	// the invitation.
	var memberships int64
	db.Model(&models.CommunityMember{}).Where("community_id = ?", community.ID).Count(&memberships)
	if memberships != 0 {
		t.Errorf("memberships created = %d, expected 0", memberships)
	}

	var reloaded models.Invitation
	if err := db.First(&reloaded, invitation.ID).Error; err != nil {
		t.Fatalf("reloading invitation: %v", err)
	}
	if reloaded.Status != models.InvitationStatusPending {
		t.Errorf("invitation status = %q, expected still %q", reloaded.Status, models.InvitationStatusPending)
	}
}
