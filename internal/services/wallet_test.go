package services

import (
	"errors"
	"testing"

	"github.com/mujtama/backend/internal/models"
)

func TestValidateTransactionRequest(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		txType  string
		wantErr error
	}{
		{"valid deposit", 100, models.TxTypeDeposit, nil},
		{"valid withdrawal", 50, models.TxTypeWithdrawal, nil},
		{"valid stake", 25, models.TxTypeStake, nil},
		{"zero amount", 0, models.TxTypeDeposit, ErrAmountNotPositive},
		{"negative amount", -10, models.TxTypeDeposit, ErrAmountNotPositive},
		{"unknown type", 100, "transfer", ErrInvalidTxType},
		{"empty type", 100, "", ErrInvalidTxType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransactionRequest(tt.amount, tt.txType)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTransactionRequest(%v, %q) = %v, expected %v", tt.amount, tt.txType, err, tt.wantErr)
			}
		})
	}
}

func TestStakeDescription(t *testing.T) {
	desc := stakeDescription("Morning Run Club")
	expected := `Stake for community "Morning Run Club"`
	if desc != expected {
		t.Errorf("stakeDescription() = %q, expected %q", desc, expected)
	}
}

func TestWalletService_CreateTransaction_GuardsOverdraft(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "saver")

	svc := NewWalletService(db)

	if _, err := svc.CreateTransaction(user.ID, &CreateTransactionRequest{Amount: 100, Type: models.TxTypeDeposit}); err != nil {
		t.Fatalf("deposit error = %v", err)
	}
	if _, err := svc.CreateTransaction(user.ID, &CreateTransactionRequest{Amount: 30, Type: models.TxTypeWithdrawal}); err != nil {
		t.Fatalf("withdrawal error = %v", err)
	}

	// A debit larger than the balance must fail the conditional update and
	// leave both the balance and the ledger untouched.
	if _, err := svc.CreateTransaction(user.ID, &CreateTransactionRequest{Amount: 100, Type: models.TxTypeWithdrawal}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraft error = %v, expected %v", err, ErrInsufficientBalance)
	}

	resp, err := svc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if resp.Balance != 70 {
		t.Errorf("balance = %v, expected 70", resp.Balance)
	}

	var ledger int64
	db.Model(&models.WalletTransaction{}).Where("user_id = ?", user.ID).Count(&ledger)
	if ledger != 2 {
		t.Errorf("ledger rows = %d, expected 2", ledger)
	}
}
