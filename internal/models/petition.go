package models

import "time"

// Petition types: which community parameter the petition proposes to change.
const (
	PetitionTypeExtendDeadline = "extend_deadline"
	PetitionTypeChangeStaking  = "change_staking"
	PetitionTypeChangeGoal     = "change_goal"
)

// Petition statuses
const (
	PetitionStatusOpen     = "open"
	PetitionStatusApproved = "approved"
	PetitionStatusRejected = "rejected"
)

// Petition is a member-proposed change to a community parameter, resolved by
// majority vote of the community's active members.
type Petition struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CommunityID   uint      `gorm:"not null;index" json:"community_id"`
	ProposerID    uint      `gorm:"not null;index" json:"proposer_id"`
	Type          string    `gorm:"size:30;not null" json:"type"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ProposedValue string    `gorm:"size:200;not null" json:"proposed_value"` // RFC3339 date or numeric string
	Status        string    `gorm:"size:20;default:open;index" json:"status"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Petition) TableName() string { return "petitions" }

// PetitionVote records one member's vote on a petition. At most one vote per
// (petition_id, voter_id) pair.
type PetitionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PetitionID uint      `gorm:"not null;index;uniqueIndex:uk_petition_voter" json:"petition_id"`
	VoterID    uint      `gorm:"not null;index;uniqueIndex:uk_petition_voter" json:"voter_id"`
	InFavor    bool      `gorm:"not null" json:"in_favor"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PetitionVote) TableName() string { return "petition_votes" }
