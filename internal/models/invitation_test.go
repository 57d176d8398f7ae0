package models

import (
	"testing"
	"time"
)

func TestInvitation_IsExpired(t *testing.T) {
	future := Invitation{ExpiresAt: time.Now().Add(time.Hour)}
	if future.IsExpired() {
		t.Error("invitation expiring in an hour should not be expired")
	}

	past := Invitation{ExpiresAt: time.Now().Add(-time.Hour)}
	if !past.IsExpired() {
		t.Error("invitation that expired an hour ago should be expired")
	}
}

func TestInvitation_IsActionable(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		expiresAt time.Time
		expected  bool
	}{
		{"pending and unexpired", InvitationStatusPending, time.Now().Add(time.Hour), true},
		{"pending but expired", InvitationStatusPending, time.Now().Add(-time.Hour), false},
		{"already accepted", InvitationStatusAccepted, time.Now().Add(time.Hour), false},
		{"already declined", InvitationStatusDeclined, time.Now().Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{Status: tt.status, ExpiresAt: tt.expiresAt}
			if inv.IsActionable() != tt.expected {
				t.Errorf("IsActionable() = %v, expected %v", inv.IsActionable(), tt.expected)
			}
		})
	}
}
