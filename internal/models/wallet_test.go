package models

import "testing"

func TestIsDebit(t *testing.T) {
	tests := []struct {
		txType   string
		expected bool
	}{
		{TxTypeDeposit, false},
		{TxTypeWithdrawal, true},
		{TxTypeStake, true},
		{TxTypeRefund, false},
		{TxTypeReward, false},
	}

	for _, tt := range tests {
		t.Run(tt.txType, func(t *testing.T) {
			if IsDebit(tt.txType) != tt.expected {
				t.Errorf("IsDebit(%q) = %v, expected %v", tt.txType, IsDebit(tt.txType), tt.expected)
			}
		})
	}
}

func TestIsValidTxType(t *testing.T) {
	valid := []string{TxTypeDeposit, TxTypeWithdrawal, TxTypeStake, TxTypeRefund, TxTypeReward}
	for _, txType := range valid {
		if !IsValidTxType(txType) {
			t.Errorf("IsValidTxType(%q) should be true", txType)
		}
	}

	invalid := []string{"", "transfer", "DEPOSIT", "unknown"}
	for _, txType := range invalid {
		if IsValidTxType(txType) {
			t.Errorf("IsValidTxType(%q) should be false", txType)
		}
	}
}
