package services

import (
	"errors"
	"testing"

	"github.com/mujtama/backend/internal/models"
)

func TestPetitionOutcome(t *testing.T) {
	tests := []struct {
		name         string
		votesFor     int64
		votesAgainst int64
		electorate   int64
		expected     string
	}{
		{"no votes yet", 0, 0, 5, models.PetitionStatusOpen},
		{"majority in favor", 3, 0, 5, models.PetitionStatusApproved},
		{"exactly half in favor stays open", 2, 0, 4, models.PetitionStatusOpen},
		{"majority unreachable", 0, 3, 5, models.PetitionStatusRejected},
		{"half against rejects", 1, 2, 4, models.PetitionStatusRejected},
		{"all in favor", 5, 0, 5, models.PetitionStatusApproved},
		{"single member approves alone", 1, 0, 1, models.PetitionStatusApproved},
		{"single member rejects alone", 0, 1, 1, models.PetitionStatusRejected},
		{"empty electorate rejects", 0, 0, 0, models.PetitionStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PetitionOutcome(tt.votesFor, tt.votesAgainst, tt.electorate)
			if got != tt.expected {
				t.Errorf("PetitionOutcome(%d, %d, %d) = %q, expected %q",
					tt.votesFor, tt.votesAgainst, tt.electorate, got, tt.expected)
			}
		})
	}
}

func TestValidatePetitionValue(t *testing.T) {
	tests := []struct {
		name         string
		petitionType string
		value        string
		wantErr      error
	}{
		{"valid deadline", models.PetitionTypeExtendDeadline, "2025-09-01T00:00:00Z", nil},
		{"invalid deadline format", models.PetitionTypeExtendDeadline, "next friday", ErrPetitionValueInvalid},
		{"date without time", models.PetitionTypeExtendDeadline, "2025-09-01", ErrPetitionValueInvalid},
		{"valid staking amount", models.PetitionTypeChangeStaking, "25.50", nil},
		{"zero staking amount", models.PetitionTypeChangeStaking, "0", ErrPetitionValueInvalid},
		{"negative staking amount", models.PetitionTypeChangeStaking, "-5", ErrPetitionValueInvalid},
		{"non-numeric staking amount", models.PetitionTypeChangeStaking, "lots", ErrPetitionValueInvalid},
		{"valid goal", models.PetitionTypeChangeGoal, "Run 5km three times a week", nil},
		{"empty goal", models.PetitionTypeChangeGoal, "", ErrPetitionValueInvalid},
		{"unknown type", "change_name", "anything", ErrPetitionTypeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePetitionValue(tt.petitionType, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePetitionValue(%q, %q) = %v, expected %v",
					tt.petitionType, tt.value, err, tt.wantErr)
			}
		})
	}
}

// A stake confirmed while a stake-change vote is open must block the change:
// the petition resolves as rejected and the staking amount stays put.
func TestPetitionService_StakeChangeRejectedAfterMidVoteStake(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "creator")
	voter := createTestUser(t, db, "voter")
	community := createTestCommunity(t, db, creator.ID, models.CommunityStatusPending, 25)
	member := createTestMember(t, db, community.ID, voter.ID, models.MemberStatusActive, false, 0)

	svc := NewPetitionService(db, NewCommunityService(db, nil))

	petition, err := svc.Create(community.ID, voter.ID, &CreatePetitionRequest{
		Type:          models.PetitionTypeChangeStaking,
		Title:         "Raise the stake",
		ProposedValue: "50",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A stake lands while the vote is still open.
	if err := db.Model(member).Update("has_staked", true).Error; err != nil {
		t.Fatalf("marking member staked: %v", err)
	}

	inFavor := true
	result, err := svc.Vote(petition.ID, voter.ID, &VoteRequest{InFavor: &inFavor})
	if err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	if result.Status != models.PetitionStatusRejected {
		t.Errorf("petition status = %q, expected %q", result.Status, models.PetitionStatusRejected)
	}

	var unchanged models.Community
	if err := db.First(&unchanged, community.ID).Error; err != nil {
		t.Fatalf("loading community: %v", err)
	}
	if unchanged.StakingAmount != 25 {
		t.Errorf("staking amount = %v, expected unchanged 25", unchanged.StakingAmount)
	}
}
