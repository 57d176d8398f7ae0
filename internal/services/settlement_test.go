package services

import (
	"context"
	"testing"

	"github.com/mujtama/backend/internal/models"
)

func TestMemberOutcome(t *testing.T) {
	tests := []struct {
		name          string
		progress      float64
		weightedRatio float64
		hasMilestones bool
		threshold     float64
		expected      string
	}{
		{"full progress completes", 100, 0, false, 1.0, models.MemberStatusCompleted},
		{"partial progress fails without milestones", 80, 0, false, 1.0, models.MemberStatusFailed},
		{"zero progress fails", 0, 0, false, 1.0, models.MemberStatusFailed},
		{"milestone ratio at threshold completes", 50, 1.0, true, 1.0, models.MemberStatusCompleted},
		{"milestone ratio above threshold completes", 50, 0.8, true, 0.75, models.MemberStatusCompleted},
		{"milestone ratio below threshold fails", 50, 0.5, true, 1.0, models.MemberStatusFailed},
		{"ratio ignored without milestones", 50, 1.0, false, 1.0, models.MemberStatusFailed},
		{"full progress wins regardless of milestones", 100, 0, true, 1.0, models.MemberStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MemberOutcome(tt.progress, tt.weightedRatio, tt.hasMilestones, tt.threshold)
			if got != tt.expected {
				t.Errorf("MemberOutcome() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRewardShare(t *testing.T) {
	tests := []struct {
		name       string
		pool       float64
		completers int
		expected   float64
	}{
		{"even split", 100, 4, 25},
		{"single completer takes all", 100, 1, 100},
		{"rounds down to cents", 100, 3, 33.33},
		{"zero completers", 100, 0, 0},
		{"zero pool", 0, 5, 0},
		{"negative pool", -10, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewardShare(tt.pool, tt.completers)
			if got != tt.expected {
				t.Errorf("RewardShare(%v, %d) = %v, expected %v", tt.pool, tt.completers, got, tt.expected)
			}
		})
	}
}

func TestRewardShare_NeverOverdrawsPool(t *testing.T) {
	pools := []float64{100, 99.99, 10, 0.01, 33.34}
	for _, pool := range pools {
		for completers := 1; completers <= 7; completers++ {
			share := RewardShare(pool, completers)
			if share*float64(completers) > pool+1e-9 {
				t.Errorf("RewardShare(%v, %d) = %v overdraws the pool", pool, completers, share)
			}
		}
	}
}

// A member can confirm a stake and then never accept the terms, staying
// pending past the deadline. Their stake must flow into the forfeited pool at
// settlement; no money may leave the system.
func TestSettleCommunity_ForfeitsStakeOfUnactivatedMember(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator")
	lurker := createTestUser(t, db, "lurker")     // staked, never accepted terms
	finisher := createTestUser(t, db, "finisher") // staked, activated, completed

	community := createTestCommunity(t, db, creator.ID, models.CommunityStatusActive, 25)
	createTestMember(t, db, community.ID, lurker.ID, models.MemberStatusPending, true, 0)
	createTestMember(t, db, community.ID, finisher.ID, models.MemberStatusActive, true, 100)

	walletSvc := NewWalletService(db)
	cid := community.ID
	for _, u := range []*models.User{lurker, finisher} {
		if _, err := walletSvc.CreateTransaction(u.ID, &CreateTransactionRequest{Amount: 100, Type: models.TxTypeDeposit}); err != nil {
			t.Fatalf("deposit for user %d error = %v", u.ID, err)
		}
		if _, err := walletSvc.CreateTransaction(u.ID, &CreateTransactionRequest{Amount: 25, Type: models.TxTypeStake, CommunityID: &cid}); err != nil {
			t.Fatalf("stake for user %d error = %v", u.ID, err)
		}
	}

	svc := NewSettlementService(db, NewSyncQueue())
	if err := svc.SettleCommunity(context.Background(), community.ID); err != nil {
		t.Fatalf("SettleCommunity() error = %v", err)
	}

	var pendingMember models.CommunityMember
	if err := db.Where("community_id = ? AND user_id = ?", community.ID, lurker.ID).First(&pendingMember).Error; err != nil {
		t.Fatalf("loading settled member: %v", err)
	}
	if pendingMember.Status != models.MemberStatusFailed {
		t.Errorf("unactivated member status = %q, expected %q", pendingMember.Status, models.MemberStatusFailed)
	}

	balance := func(userID uint) float64 {
		resp, err := walletSvc.GetBalance(userID)
		if err != nil {
			t.Fatalf("GetBalance(%d) error = %v", userID, err)
		}
		return resp.Balance
	}

	// The forfeited stake funds the completer's reward: 75 after staking,
	// plus the 25 refund, plus the 25 pool.
	if got := balance(finisher.ID); got != 125 {
		t.Errorf("completer balance = %v, expected 125", got)
	}
	if got := balance(lurker.ID); got != 75 {
		t.Errorf("forfeiting member balance = %v, expected 75", got)
	}
	if total := balance(lurker.ID) + balance(finisher.ID); total != 200 {
		t.Errorf("total balances after settlement = %v, expected the 200 deposited", total)
	}

	var settled models.Community
	if err := db.First(&settled, community.ID).Error; err != nil {
		t.Fatalf("loading settled community: %v", err)
	}
	if settled.Status != models.CommunityStatusCompleted {
		t.Errorf("community status = %q, expected %q", settled.Status, models.CommunityStatusCompleted)
	}
}
