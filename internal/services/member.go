package services

import (
	"errors"
	"time"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMember      = errors.New("already a member of this community")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrNotYourMembership  = errors.New("not your membership")
	ErrMemberNotPending   = errors.New("membership is not pending")
	ErrMemberNotActive    = errors.New("membership is not active")
	ErrAlreadyStaked      = errors.New("stake already confirmed")
	ErrCommunityClosed    = errors.New("community is no longer open for joining")
)

// MemberService owns the membership lifecycle:
// NONE -> PENDING -> ACTIVE -> COMPLETED | FAILED, with PENDING -> NONE on
// withdrawal before staking.
type MemberService struct {
	db        *gorm.DB
	walletSvc *WalletService
}

func NewMemberService(db *gorm.DB, walletSvc *WalletService) *MemberService {
	return &MemberService{db: db, walletSvc: walletSvc}
}

type MemberListResponse struct {
	Total int64                 `json:"total"`
	Items []MemberWithUser      `json:"items"`
}

type MemberWithUser struct {
	models.CommunityMember
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type UpdateProgressRequest struct {
	Value float64 `json:"value"`
	Notes string  `json:"notes"`
}

// ClampProgress clamps a progress value to the [0,100] range.
func ClampProgress(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// Join creates a pending membership for the user. Joining twice is rejected;
// the unique (community_id, user_id) index backs this up at the DB level.
func (s *MemberService) Join(communityID, userID uint) (*models.CommunityMember, error) {
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

	var count int64
	s.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count)
	if count > 0 {
		return nil, ErrAlreadyMember
	}

	member := models.CommunityMember{
		CommunityID:      communityID,
		UserID:           userID,
		Role:             models.MemberRoleMember,
		Status:           models.MemberStatusPending,
		HasAcceptedTerms: false,
		HasStaked:        false,
		Progress:         0,
		JoinedAt:         time.Now(),
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

// GetMembership returns the membership for a (community, user) pair.
func (s *MemberService) GetMembership(communityID, userID uint) (*models.CommunityMember, error) {
	var member models.CommunityMember
	err := s.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers returns all members of a community with user info.
func (s *MemberService) ListMembers(communityID uint) (*MemberListResponse, error) {
	var items []MemberWithUser
	err := s.db.Model(&models.CommunityMember{}).
		Select("community_members.*, users.username, users.display_name, users.avatar").
		Joins("JOIN users ON users.id = community_members.user_id").
		Where("community_members.community_id = ?", communityID).
		Order("community_members.joined_at ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return &MemberListResponse{Total: int64(len(items)), Items: items}, nil
}

// AcceptTerms marks the member's terms acceptance. Valid only while pending;
// the member activates once the stake is also confirmed.
func (s *MemberService) AcceptTerms(memberID, userID uint) (*models.CommunityMember, error) {
	member, err := s.getOwnMembership(memberID, userID)
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusPending {
		return nil, ErrMemberNotPending
	}

	member.HasAcceptedTerms = true
	updates := map[string]interface{}{"has_accepted_terms": true}
	if member.CanActivate() {
		member.Status = models.MemberStatusActive
		updates["status"] = models.MemberStatusActive
	}

	if err := s.db.Model(&models.CommunityMember{}).Where("id = ?", memberID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// ConfirmStake debits the community's staking amount from the member's
// wallet and marks the membership staked, in one transaction. The member
// becomes active only when terms are also accepted.
func (s *MemberService) ConfirmStake(memberID, userID uint) (*models.CommunityMember, error) {
	member, err := s.getOwnMembership(memberID, userID)
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusPending {
		return nil, ErrMemberNotPending
	}
	if member.HasStaked {
		return nil, ErrAlreadyStaked
	}

	var community models.Community
	if err := s.db.First(&community, member.CommunityID).Error; err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		communityID := community.ID
		if _, err := s.walletSvc.applyTransaction(tx, userID, community.StakingAmount, models.TxTypeStake, stakeDescription(community.Name), &communityID); err != nil {
			return err
		}

		member.HasStaked = true
		updates := map[string]interface{}{"has_staked": true}
		if member.CanActivate() {
			member.Status = models.MemberStatusActive
			updates["status"] = models.MemberStatusActive
		}
		return tx.Model(&models.CommunityMember{}).Where("id = ?", memberID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateProgress overwrites the member's progress (latest-write-wins) and
// appends a progress log entry in the same transaction. Active members only,
// own membership only, value clamped to [0,100].
func (s *MemberService) UpdateProgress(memberID, userID uint, req *UpdateProgressRequest) (*models.CommunityMember, error) {
	member, err := s.getOwnMembership(memberID, userID)
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusActive {
		return nil, ErrMemberNotActive
	}

	value := ClampProgress(req.Value)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.ProgressLog{
			MemberID: memberID,
			Value:    value,
			Notes:    req.Notes,
			LoggedAt: time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityMember{}).Where("id = ?", memberID).Update("progress", value).Error
	})
	if err != nil {
		return nil, err
	}

	member.Progress = value
	return member, nil
}

// Withdraw deletes a pending membership before staking. Active, completed
// and failed memberships cannot be withdrawn.
func (s *MemberService) Withdraw(memberID, userID uint) error {
	member, err := s.getOwnMembership(memberID, userID)
	if err != nil {
		return err
	}
	if member.Status != models.MemberStatusPending {
		return ErrMemberNotPending
	}
	if member.HasStaked {
		return ErrAlreadyStaked
	}

	return s.db.Delete(&models.CommunityMember{}, memberID).Error
}

func (s *MemberService) getOwnMembership(memberID, userID uint) (*models.CommunityMember, error) {
	var member models.CommunityMember
	if err := s.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	if member.UserID != userID {
		return nil, ErrNotYourMembership
	}
	return &member, nil
}
