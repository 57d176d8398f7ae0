package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPetitionNotFound      = errors.New("petition not found")
	ErrPetitionNotOpen       = errors.New("petition is no longer open")
	ErrPetitionTypeInvalid   = errors.New("invalid petition type")
	ErrPetitionValueInvalid  = errors.New("invalid proposed value for this petition type")
	ErrAlreadyVoted          = errors.New("already voted on this petition")
	ErrStakeChangeAfterStake = errors.New("staking amount cannot change after members have staked")
)

// PetitionService lets active members propose and vote on community parameter
// changes. Petitions resolve by strict majority of the community's active
// members at vote time.
type PetitionService struct {
	db           *gorm.DB
	communitySvc *CommunityService
	notifSvc     *NotificationService
}

func NewPetitionService(db *gorm.DB, communitySvc *CommunityService) *PetitionService {
	return &PetitionService{
		db:           db,
		communitySvc: communitySvc,
		notifSvc:     NewNotificationService(db),
	}
}

type CreatePetitionRequest struct {
	Type          string `json:"type" binding:"required"`
	Title         string `json:"title" binding:"required,max=200"`
	Description   string `json:"description"`
	ProposedValue string `json:"proposed_value" binding:"required"`
}

type VoteRequest struct {
	InFavor *bool `json:"in_favor" binding:"required"`
}

type PetitionWithVotes struct {
	models.Petition
	VotesFor     int64 `json:"votes_for"`
	VotesAgainst int64 `json:"votes_against"`
	Electorate   int64 `json:"electorate"`
	MyVote       *bool `json:"my_vote"`
}

// PetitionOutcome decides a petition from the current tally. A petition is
// approved once a strict majority of the electorate voted in favor, and
// rejected once enough voted against that a majority can no longer be
// reached. Otherwise it stays open.
func PetitionOutcome(votesFor, votesAgainst, electorate int64) string {
	if electorate <= 0 {
		return models.PetitionStatusRejected
	}
	if votesFor*2 > electorate {
		return models.PetitionStatusApproved
	}
	if votesAgainst*2 >= electorate {
		return models.PetitionStatusRejected
	}
	return models.PetitionStatusOpen
}

// ValidatePetitionValue parses the proposed value according to the petition
// type: RFC3339 timestamp for deadline extensions, positive number for stake
// changes, non-empty text for goal changes.
func ValidatePetitionValue(petitionType, value string) error {
	switch petitionType {
	case models.PetitionTypeExtendDeadline:
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return ErrPetitionValueInvalid
		}
	case models.PetitionTypeChangeStaking:
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil || amount <= 0 {
			return ErrPetitionValueInvalid
		}
	case models.PetitionTypeChangeGoal:
		if value == "" {
			return ErrPetitionValueInvalid
		}
	default:
		return ErrPetitionTypeInvalid
	}
	return nil
}

// Create opens a petition. Active members only; the community must not be
// settled yet. Stake-change petitions are rejected once any member staked,
// because staked funds could no longer match the parameter.
func (s *PetitionService) Create(communityID, proposerID uint, req *CreatePetitionRequest) (*models.Petition, error) {
	var community models.Community
	if err := s.db.First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	if !community.IsOpenForJoin() {
		return nil, ErrCommunityClosed
	}

	if err := s.requireActiveMember(communityID, proposerID); err != nil {
		return nil, err
	}

	if err := ValidatePetitionValue(req.Type, req.ProposedValue); err != nil {
		return nil, err
	}

	if req.Type == models.PetitionTypeChangeStaking && s.stakedMemberCount(communityID) > 0 {
		return nil, ErrStakeChangeAfterStake
	}

	petition := models.Petition{
		CommunityID:   communityID,
		ProposerID:    proposerID,
		Type:          req.Type,
		Title:         req.Title,
		Description:   req.Description,
		ProposedValue: req.ProposedValue,
		Status:        models.PetitionStatusOpen,
	}
	if err := s.db.Create(&petition).Error; err != nil {
		return nil, err
	}

	return &petition, nil
}

// List returns a community's petitions with tallies, newest first.
func (s *PetitionService) List(communityID, currentUserID uint) ([]PetitionWithVotes, error) {
	var petitions []models.Petition
	err := s.db.Where("community_id = ?", communityID).
		Order("created_at DESC").
		Find(&petitions).Error
	if err != nil {
		return nil, err
	}

	electorate := s.activeMemberCount(communityID)

	result := make([]PetitionWithVotes, 0, len(petitions))
	for _, p := range petitions {
		item := PetitionWithVotes{Petition: p, Electorate: electorate}

		s.db.Model(&models.PetitionVote{}).
			Where("petition_id = ? AND in_favor = ?", p.ID, true).
			Count(&item.VotesFor)
		s.db.Model(&models.PetitionVote{}).
			Where("petition_id = ? AND in_favor = ?", p.ID, false).
			Count(&item.VotesAgainst)

		var vote models.PetitionVote
		if err := s.db.Where("petition_id = ? AND voter_id = ?", p.ID, currentUserID).First(&vote).Error; err == nil {
			item.MyVote = &vote.InFavor
		}

		result = append(result, item)
	}

	return result, nil
}

// Vote records the member's vote and resolves the petition when the tally
// becomes decisive. One vote per member, enforced by the unique
// (petition_id, voter_id) index.
func (s *PetitionService) Vote(petitionID, voterID uint, req *VoteRequest) (*PetitionWithVotes, error) {
	var petition models.Petition
	if err := s.db.First(&petition, petitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPetitionNotFound
		}
		return nil, err
	}
	if petition.Status != models.PetitionStatusOpen {
		return nil, ErrPetitionNotOpen
	}

	if err := s.requireActiveMember(petition.CommunityID, voterID); err != nil {
		return nil, err
	}

	var existing int64
	s.db.Model(&models.PetitionVote{}).
		Where("petition_id = ? AND voter_id = ?", petitionID, voterID).
		Count(&existing)
	if existing > 0 {
		return nil, ErrAlreadyVoted
	}

	vote := models.PetitionVote{
		PetitionID: petitionID,
		VoterID:    voterID,
		InFavor:    *req.InFavor,
	}
	if err := s.db.Create(&vote).Error; err != nil {
		return nil, err
	}

	item := PetitionWithVotes{Petition: petition}
	item.Electorate = s.activeMemberCount(petition.CommunityID)
	s.db.Model(&models.PetitionVote{}).
		Where("petition_id = ? AND in_favor = ?", petitionID, true).
		Count(&item.VotesFor)
	s.db.Model(&models.PetitionVote{}).
		Where("petition_id = ? AND in_favor = ?", petitionID, false).
		Count(&item.VotesAgainst)

	outcome := PetitionOutcome(item.VotesFor, item.VotesAgainst, item.Electorate)
	if outcome != models.PetitionStatusOpen {
		if err := s.resolve(&petition, outcome); err != nil {
			return nil, err
		}
		item.Status = outcome
	}

	return &item, nil
}

// resolve closes the petition and, on approval, applies the proposed change.
func (s *PetitionService) resolve(petition *models.Petition, outcome string) error {
	// The no-stake-change-after-staking rule is checked again here: a member
	// may have confirmed a stake while the vote was open, and applying the
	// change then would desync staked funds from the community parameter.
	if outcome == models.PetitionStatusApproved &&
		petition.Type == models.PetitionTypeChangeStaking &&
		s.stakedMemberCount(petition.CommunityID) > 0 {
		outcome = models.PetitionStatusRejected
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      outcome,
		"resolved_at": now,
	}
	if err := s.db.Model(petition).Updates(updates).Error; err != nil {
		return err
	}
	petition.Status = outcome
	petition.ResolvedAt = &now

	if outcome == models.PetitionStatusApproved {
		if err := s.applyChange(petition); err != nil {
			logger.Errorf("[Petition] Applying petition %d failed: %v", petition.ID, err)
			return err
		}
	}

	s.notifyResolution(petition, outcome)
	return nil
}

func (s *PetitionService) applyChange(petition *models.Petition) error {
	switch petition.Type {
	case models.PetitionTypeExtendDeadline:
		newDeadline, err := time.Parse(time.RFC3339, petition.ProposedValue)
		if err != nil {
			return ErrPetitionValueInvalid
		}
		return s.communitySvc.ApplyDeadlineExtension(petition.CommunityID, newDeadline)

	case models.PetitionTypeChangeStaking:
		amount, err := strconv.ParseFloat(petition.ProposedValue, 64)
		if err != nil || amount <= 0 {
			return ErrPetitionValueInvalid
		}
		return s.communitySvc.ApplyStakingChange(petition.CommunityID, amount)

	case models.PetitionTypeChangeGoal:
		return s.communitySvc.ApplyGoalChange(petition.CommunityID, petition.ProposedValue)
	}
	return ErrPetitionTypeInvalid
}

func (s *PetitionService) notifyResolution(petition *models.Petition, outcome string) {
	var members []models.CommunityMember
	if err := s.db.Where("community_id = ? AND status = ?", petition.CommunityID, models.MemberStatusActive).
		Find(&members).Error; err != nil {
		return
	}

	cid := petition.CommunityID
	title := fmt.Sprintf("Petition %q was %s", petition.Title, outcome)
	for _, m := range members {
		if err := s.notifSvc.Create(m.UserID, models.NotificationTypePetition, title, petition.Description, &cid); err != nil {
			logger.Warnf("[Petition] Notification for user %d failed: %v", m.UserID, err)
		}
	}
}

func (s *PetitionService) requireActiveMember(communityID, userID uint) error {
	var member models.CommunityMember
	err := s.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMembershipNotFound
	}
	if err != nil {
		return err
	}
	if member.Status != models.MemberStatusActive {
		return ErrMemberNotActive
	}
	return nil
}

func (s *PetitionService) activeMemberCount(communityID uint) int64 {
	var count int64
	s.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND status = ?", communityID, models.MemberStatusActive).
		Count(&count)
	return count
}

func (s *PetitionService) stakedMemberCount(communityID uint) int64 {
	var count int64
	s.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND has_staked = ?", communityID, true).
		Count(&count)
	return count
}
