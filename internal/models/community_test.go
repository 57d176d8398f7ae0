package models

import "testing"

func TestCommunity_IsOpenForJoin(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{CommunityStatusPending, true},
		{CommunityStatusActive, true},
		{CommunityStatusCompleted, false},
		{CommunityStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			c := Community{Status: tt.status}
			if c.IsOpenForJoin() != tt.expected {
				t.Errorf("IsOpenForJoin() with status %q = %v, expected %v", tt.status, c.IsOpenForJoin(), tt.expected)
			}
		})
	}
}

func TestCommunityMember_CanActivate(t *testing.T) {
	tests := []struct {
		name     string
		staked   bool
		accepted bool
		expected bool
	}{
		{"both conditions met", true, true, true},
		{"only staked", true, false, false},
		{"only accepted terms", false, true, false},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CommunityMember{HasStaked: tt.staked, HasAcceptedTerms: tt.accepted}
			if m.CanActivate() != tt.expected {
				t.Errorf("CanActivate() = %v, expected %v", m.CanActivate(), tt.expected)
			}
		})
	}
}
