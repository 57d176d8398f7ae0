package models

import "time"

// Notification types
const (
	NotificationTypeInvitation = "invitation"
	NotificationTypeSettlement = "settlement"
	NotificationTypeMembership = "membership"
	NotificationTypePetition   = "petition"
)

// Notification is a per-user in-app notification.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Type        string    `gorm:"size:30;not null" json:"type"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Body        string    `gorm:"size:1000" json:"body"`
	CommunityID *uint     `gorm:"index" json:"community_id"`
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
