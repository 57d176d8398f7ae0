package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/middleware"
	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/pkg/response"
	"gorm.io/gorm"
)

type WalletHandler struct {
	walletService *services.WalletService
}

func NewWalletHandler(db *gorm.DB) *WalletHandler {
	return &WalletHandler{
		walletService: services.NewWalletService(db),
	}
}

// GetBalance returns the caller's wallet balance
// GET /api/wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	balance, err := h.walletService.GetBalance(userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, balance)
}

// ListTransactions returns the caller's ledger entries
// GET /api/wallet/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	var req services.TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.walletService.ListTransactions(userID, &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// Deposit adds funds to the caller's wallet
// POST /api/wallet/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	h.createTransaction(c, models.TxTypeDeposit)
}

// Withdraw removes funds from the caller's wallet
// POST /api/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	h.createTransaction(c, models.TxTypeWithdrawal)
}

func (h *WalletHandler) createTransaction(c *gin.Context, txType string) {
	var req struct {
		Amount      float64 `json:"amount" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	txn, err := h.walletService.CreateTransaction(userID, &services.CreateTransactionRequest{
		Amount:      req.Amount,
		Type:        txType,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAmountNotPositive),
			errors.Is(err, services.ErrInvalidTxType),
			errors.Is(err, services.ErrInsufficientBalance):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Created(c, txn)
}
