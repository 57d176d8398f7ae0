package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewInvitationToken returns an opaque, URL-safe invitation token.
// Two UUIDs are concatenated so the token is not guessable from a single
// timestamp-seeded generator.
func NewInvitationToken() string {
	a := strings.ReplaceAll(uuid.NewString(), "-", "")
	b := strings.ReplaceAll(uuid.NewString(), "-", "")
	return a + b
}

// NewTransactionReference returns a unique reference for a wallet transaction.
func NewTransactionReference() string {
	return "txn-" + uuid.NewString()
}
