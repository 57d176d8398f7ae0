package utils

import (
	"strings"
	"testing"
)

func TestNewInvitationToken(t *testing.T) {
	token := NewInvitationToken()

	if token == "" {
		t.Fatal("NewInvitationToken() returned empty string")
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, expected 64", len(token))
	}
	if strings.Contains(token, "-") {
		t.Error("token should not contain dashes")
	}
}

func TestNewInvitationToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewInvitationToken()
		if seen[token] {
			t.Fatal("NewInvitationToken() produced a duplicate")
		}
		seen[token] = true
	}
}

func TestNewTransactionReference(t *testing.T) {
	ref := NewTransactionReference()

	if !strings.HasPrefix(ref, "txn-") {
		t.Errorf("reference %q should have txn- prefix", ref)
	}
	if ref == NewTransactionReference() {
		t.Error("references should be unique")
	}
}
