package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrInvalidTxType       = errors.New("invalid transaction type")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// WalletService is the ledger. Every balance change happens inside a DB
// transaction together with its WalletTransaction row, so the balance and the
// ledger can never disagree.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Type        string  `json:"transaction_type" binding:"required"`
	Description string  `json:"description"`
	CommunityID *uint   `json:"community_id"`
}

type TransactionListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Type     string `form:"type"`
}

type TransactionListResponse struct {
	Total    int64                      `json:"total"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
	Items    []models.WalletTransaction `json:"items"`
}

type BalanceResponse struct {
	UserID  uint    `json:"user_id"`
	Balance float64 `json:"balance"`
}

// ValidateTransactionRequest checks a transaction draft before any DB work.
func ValidateTransactionRequest(amount float64, txType string) error {
	if amount <= 0 {
		return ErrAmountNotPositive
	}
	if !models.IsValidTxType(txType) {
		return ErrInvalidTxType
	}
	return nil
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on
// first access.
func (s *WalletService) GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID, Balance: 0}
		if err := s.db.Create(&wallet).Error; err != nil {
			return nil, err
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetBalance returns the user's current balance.
func (s *WalletService) GetBalance(userID uint) (*BalanceResponse, error) {
	wallet, err := s.GetOrCreateWallet(userID)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{UserID: userID, Balance: wallet.Balance}, nil
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *WalletService) ListTransactions(userID uint, req *TransactionListRequest) (*TransactionListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var transactions []models.WalletTransaction
	var total int64

	query := s.db.Model(&models.WalletTransaction{}).Where("user_id = ?", userID)
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}

	return &TransactionListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    transactions,
	}, nil
}

// CreateTransaction validates and applies a wallet transaction atomically.
func (s *WalletService) CreateTransaction(userID uint, req *CreateTransactionRequest) (*models.WalletTransaction, error) {
	if err := ValidateTransactionRequest(req.Amount, req.Type); err != nil {
		return nil, err
	}

	var txn *models.WalletTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = s.applyTransaction(tx, userID, req.Amount, req.Type, req.Description, req.CommunityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// applyTransaction performs the balance arithmetic and inserts the ledger row
// inside the caller's transaction. Debits run as a single conditional UPDATE
// guarded by `balance >= amount`, so two concurrent debits can never both
// pass the overdraft check.
func (s *WalletService) applyTransaction(tx *gorm.DB, userID uint, amount float64, txType, description string, communityID *uint) (*models.WalletTransaction, error) {
	if err := ValidateTransactionRequest(amount, txType); err != nil {
		return nil, err
	}

	var wallet models.Wallet
	err := tx.Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID, Balance: 0}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if models.IsDebit(txType) {
		result := tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ?", wallet.ID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrInsufficientBalance
		}
	} else {
		if err := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return nil, err
		}
	}

	txn := models.WalletTransaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Status:      models.TxStatusCompleted,
		CommunityID: communityID,
		Description: description,
		Reference:   utils.NewTransactionReference(),
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}

	return &txn, nil
}

// stakeDescription builds the ledger description for a community stake.
func stakeDescription(communityName string) string {
	return fmt.Sprintf("Stake for community %q", communityName)
}
