package models

import "time"

// Milestone is a creator-defined checkpoint contributing weighted progress
// toward a community goal. Immutable after creation.
type Milestone struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CommunityID uint       `gorm:"not null;index" json:"community_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Weight      int        `gorm:"not null;default:1" json:"weight"` // positive, relative importance
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Milestone) TableName() string { return "milestones" }

// MilestoneCompletion records that a user completed a milestone.
// At most one row may exist per (milestone_id, user_id) pair.
type MilestoneCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MilestoneID uint      `gorm:"not null;index;uniqueIndex:uk_milestone_user" json:"milestone_id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:uk_milestone_user" json:"user_id"`
	Note        string    `gorm:"size:500" json:"note"`
	CompletedAt time.Time `json:"completed_at"`
}

func (MilestoneCompletion) TableName() string { return "milestone_completions" }
