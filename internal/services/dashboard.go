package services

import (
	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

// DashboardService aggregates a user's standing across communities for the
// home screen.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	ActiveMemberships    int64   `json:"active_memberships"`
	PendingMemberships   int64   `json:"pending_memberships"`
	CompletedMemberships int64   `json:"completed_memberships"`
	FailedMemberships    int64   `json:"failed_memberships"`
	CreatedCommunities   int64   `json:"created_communities"`
	TotalStaked          float64 `json:"total_staked"`
	WalletBalance        float64 `json:"wallet_balance"`
	UnreadNotifications  int64   `json:"unread_notifications"`
}

type MembershipSummary struct {
	MemberID      uint    `json:"member_id"`
	CommunityID   uint    `json:"community_id"`
	CommunityName string  `json:"community_name"`
	Status        string  `json:"status"`
	Progress      float64 `json:"progress"`
	StakingAmount float64 `json:"staking_amount"`
	Deadline      string  `json:"deadline"`
}

type DashboardResponse struct {
	Stats       DashboardStats      `json:"stats"`
	Memberships []MembershipSummary `json:"memberships"`
}

// GetStats returns the user's dashboard: membership counts per status, money
// at stake, wallet balance, and a summary of every non-terminal membership.
func (s *DashboardService) GetStats(userID uint) (*DashboardResponse, error) {
	var stats DashboardStats

	countByStatus := func(status string) int64 {
		var n int64
		s.db.Model(&models.CommunityMember{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(&n)
		return n
	}

	stats.ActiveMemberships = countByStatus(models.MemberStatusActive)
	stats.PendingMemberships = countByStatus(models.MemberStatusPending)
	stats.CompletedMemberships = countByStatus(models.MemberStatusCompleted)
	stats.FailedMemberships = countByStatus(models.MemberStatusFailed)

	s.db.Model(&models.Community{}).
		Where("creator_id = ?", userID).
		Count(&stats.CreatedCommunities)

	// Money currently at stake: staked memberships in communities that have
	// not settled yet.
	s.db.Model(&models.CommunityMember{}).
		Select("COALESCE(SUM(communities.staking_amount), 0)").
		Joins("JOIN communities ON communities.id = community_members.community_id").
		Where("community_members.user_id = ? AND community_members.has_staked = ?", userID, true).
		Where("communities.status IN ?", []string{models.CommunityStatusPending, models.CommunityStatusActive}).
		Scan(&stats.TotalStaked)

	var wallet models.Wallet
	if err := s.db.Where("user_id = ?", userID).First(&wallet).Error; err == nil {
		stats.WalletBalance = wallet.Balance
	}

	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&stats.UnreadNotifications)

	var memberships []MembershipSummary
	err := s.db.Model(&models.CommunityMember{}).
		Select("community_members.id as member_id, communities.id as community_id, communities.name as community_name, community_members.status, community_members.progress, communities.staking_amount, communities.deadline").
		Joins("JOIN communities ON communities.id = community_members.community_id").
		Where("community_members.user_id = ?", userID).
		Where("community_members.status IN ?", []string{models.MemberStatusPending, models.MemberStatusActive}).
		Order("communities.deadline ASC").
		Scan(&memberships).Error
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{Stats: stats, Memberships: memberships}, nil
}
