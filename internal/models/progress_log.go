package models

import "time"

// ProgressLog is an append-only history entry for a member's progress.
// The member's current progress field is updated in the same transaction
// that inserts the log row.
type ProgressLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	MemberID uint      `gorm:"not null;index" json:"member_id"`
	Value    float64   `gorm:"not null" json:"value"` // clamped to 0-100 before insert
	Notes    string    `gorm:"size:1000" json:"notes"`
	LoggedAt time.Time `gorm:"index" json:"logged_at"`
}

func (ProgressLog) TableName() string { return "progress_logs" }
