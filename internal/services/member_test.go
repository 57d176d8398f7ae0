package services

import (
	"errors"
	"testing"

	"github.com/mujtama/backend/internal/models"
)

func TestClampProgress(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"in range", 50, 50},
		{"zero", 0, 0},
		{"hundred", 100, 100},
		{"negative clamps to zero", -10, 0},
		{"above hundred clamps", 150, 100},
		{"slightly above", 100.01, 100},
		{"fractional in range", 33.5, 33.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampProgress(tt.value); got != tt.expected {
				t.Errorf("ClampProgress(%v) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestMemberService_Join_RejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator")
	runner := createTestUser(t, db, "runner")
	community := createTestCommunity(t, db, creator.ID, models.CommunityStatusPending, 25)

	svc := NewMemberService(db, NewWalletService(db))

	first, err := svc.Join(community.ID, runner.ID)
	if err != nil {
		t.Fatalf("first Join() error = %v", err)
	}
	if first.Status != models.MemberStatusPending {
		t.Errorf("new membership status = %q, expected %q", first.Status, models.MemberStatusPending)
	}

	if _, err := svc.Join(community.ID, runner.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second Join() error = %v, expected %v", err, ErrAlreadyMember)
	}

	var count int64
	db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, runner.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("membership rows = %d, expected 1", count)
	}
}
