package models

import "time"

// Message is a chat message posted in a community. Member-only.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"not null;index" json:"community_id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
