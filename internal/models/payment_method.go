package models

import "time"

// PaymentMethod stores a user's funding source reference. Only a masked
// identifier is kept; actual charging happens outside this service.
type PaymentMethod struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Kind       string    `gorm:"size:30;not null" json:"kind"` // card, bank, paypal
	Label      string    `gorm:"size:100" json:"label"`
	MaskedInfo string    `gorm:"size:50" json:"masked_info"` // e.g. "**** 4242"
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }
