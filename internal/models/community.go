package models

import (
	"time"

	"gorm.io/gorm"
)

// Community statuses
const (
	CommunityStatusPending   = "pending"
	CommunityStatusActive    = "active"
	CommunityStatusCompleted = "completed"
	CommunityStatusFailed    = "failed"
)

// Community visibility
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Member statuses
const (
	MemberStatusPending   = "pending"
	MemberStatusActive    = "active"
	MemberStatusCompleted = "completed"
	MemberStatusFailed    = "failed"
)

// Member roles
const (
	MemberRoleCreator = "creator"
	MemberRoleMember  = "member"
)

// Community represents a goal-oriented group with a shared deadline and
// financial stake.
type Community struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:200;not null;index" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Goal          string         `gorm:"type:text;not null" json:"goal"`
	GoalAmount    *float64       `json:"goal_amount"` // optional numeric target
	Category      string         `gorm:"size:100;index" json:"category"`
	Tags          string         `gorm:"size:500" json:"tags"` // comma-joined, order preserved
	StakingAmount float64        `gorm:"not null" json:"staking_amount"`
	StartDate     time.Time      `gorm:"index;not null" json:"start_date"`
	Deadline      time.Time      `gorm:"index;not null" json:"deadline"`
	Visibility    string         `gorm:"size:20;default:public" json:"visibility"` // public, private
	Status        string         `gorm:"size:20;default:pending;index" json:"status"`
	CreatorID     uint           `gorm:"index;not null" json:"creator_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Community) TableName() string { return "communities" }

// IsOpenForJoin reports whether new members may still request to join.
func (c *Community) IsOpenForJoin() bool {
	return c.Status == CommunityStatusPending || c.Status == CommunityStatusActive
}

// CommunityMember is a user's participation record in one community.
// Exactly one row may exist per (community_id, user_id) pair.
type CommunityMember struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CommunityID      uint      `gorm:"not null;index;uniqueIndex:uk_community_user" json:"community_id"`
	UserID           uint      `gorm:"not null;index;uniqueIndex:uk_community_user" json:"user_id"`
	Role             string    `gorm:"size:20;default:member" json:"role"` // creator, member
	Status           string    `gorm:"size:20;default:pending;index" json:"status"`
	HasAcceptedTerms bool      `gorm:"default:false" json:"has_accepted_terms"`
	HasStaked        bool      `gorm:"default:false" json:"has_staked"`
	Progress         float64   `gorm:"default:0" json:"progress"` // 0-100
	JoinedAt         time.Time `json:"joined_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (CommunityMember) TableName() string { return "community_members" }

// CanActivate reports whether the member satisfies both activation
// preconditions. Partial completion keeps the member pending.
func (m *CommunityMember) CanActivate() bool {
	return m.HasStaked && m.HasAcceptedTerms
}
