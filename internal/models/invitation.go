package models

import "time"

// Invitation statuses
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"

	// InvitationStatusExpired is a read-side status only; stale pending rows
	// are persisted as declined by the lifecycle sweep.
	InvitationStatusExpired = "expired"
)

// Invitation is an email invite to join a community, identified by an opaque
// token carried in a deep link.
type Invitation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Token        string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	CommunityID  uint      `gorm:"not null;index" json:"community_id"`
	InviterID    uint      `gorm:"not null;index" json:"inviter_id"`
	InviteeEmail string    `gorm:"size:255;not null;index" json:"invitee_email"`
	Status       string    `gorm:"size:20;default:pending" json:"status"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Invitation) TableName() string { return "invitations" }

// IsExpired reports whether the invitation's expiry has passed.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsActionable reports whether the invitation can still be accepted or
// declined: it must be pending and not expired.
func (i *Invitation) IsActionable() bool {
	return i.Status == InvitationStatusPending && !i.IsExpired()
}
