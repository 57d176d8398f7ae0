package models

import "time"

// Wallet transaction types. Direction is implied by the type, never by a
// negative amount.
const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeStake      = "stake"
	TxTypeRefund     = "refund"
	TxTypeReward     = "reward"
)

// Wallet transaction statuses
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

// Wallet holds a user's balance. One wallet per user; the balance is only
// mutated inside ledger transactions together with a WalletTransaction row.
type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   float64   `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }

// IsDebit reports whether a transaction type moves funds out of the wallet.
func IsDebit(txType string) bool {
	return txType == TxTypeWithdrawal || txType == TxTypeStake
}

// IsValidTxType reports whether the given transaction type is known.
func IsValidTxType(txType string) bool {
	switch txType {
	case TxTypeDeposit, TxTypeWithdrawal, TxTypeStake, TxTypeRefund, TxTypeReward:
		return true
	}
	return false
}

// WalletTransaction is a single row in the wallet ledger. Amount is strictly
// positive.
type WalletTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WalletID    uint      `gorm:"not null;index" json:"wallet_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Type        string    `gorm:"size:20;not null;index" json:"transaction_type"`
	Status      string    `gorm:"size:20;default:pending" json:"status"`
	CommunityID *uint     `gorm:"index" json:"community_id"`
	Description string    `gorm:"size:500" json:"description"`
	Reference   string    `gorm:"uniqueIndex;size:64" json:"reference"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }
