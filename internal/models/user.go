package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account (the "profiles" table of the platform).
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password    string         `gorm:"size:255" json:"-"` // bcrypt hash
	Email       string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName string         `gorm:"size:100" json:"display_name"`
	Avatar      string         `gorm:"size:500" json:"avatar"`
	Bio         string         `gorm:"size:500" json:"bio"`
	Role        string         `gorm:"size:50;default:user" json:"role"` // admin, user
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLogin   *time.Time     `json:"last_login"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
