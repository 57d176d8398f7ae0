package services

import "testing"

func TestIsValidPaymentKind(t *testing.T) {
	valid := []string{"card", "bank", "paypal"}
	for _, kind := range valid {
		if !IsValidPaymentKind(kind) {
			t.Errorf("IsValidPaymentKind(%q) = false, expected true", kind)
		}
	}

	invalid := []string{"", "cash", "crypto", "Card"}
	for _, kind := range invalid {
		if IsValidPaymentKind(kind) {
			t.Errorf("IsValidPaymentKind(%q) = true, expected false", kind)
		}
	}
}
