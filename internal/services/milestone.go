package services

import (
	"errors"
	"time"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrWeightNotPositive = errors.New("milestone weight must be a positive integer")
)

// MilestoneService manages creator-defined checkpoints and their completion
// records.
type MilestoneService struct {
	db *gorm.DB
}

func NewMilestoneService(db *gorm.DB) *MilestoneService {
	return &MilestoneService{db: db}
}

type CreateMilestoneRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Weight      *int       `json:"weight"`
}

type CompleteMilestoneRequest struct {
	Note string `json:"note"`
}

type MilestoneWithStats struct {
	models.Milestone
	CompletionCount    int64 `json:"completion_count"`
	CompletedByCurrent bool  `json:"completed_by_current_user"`
}

// NormalizeWeight applies the default weight of 1 and rejects non-positive
// values.
func NormalizeWeight(weight *int) (int, error) {
	if weight == nil {
		return 1, nil
	}
	if *weight < 1 {
		return 0, ErrWeightNotPositive
	}
	return *weight, nil
}

// Create adds a milestone to a community. Creator-only; milestones are
// immutable once created.
func (s *MilestoneService) Create(communityID, userID uint, req *CreateMilestoneRequest) (*models.Milestone, error) {
	var community models.Community
	if err := s.db.First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	if community.CreatorID != userID {
		return nil, ErrNotCreator
	}

	weight, err := NormalizeWeight(req.Weight)
	if err != nil {
		return nil, err
	}

	milestone := models.Milestone{
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Weight:      weight,
		CreatedBy:   userID,
	}
	if err := s.db.Create(&milestone).Error; err != nil {
		return nil, err
	}

	return &milestone, nil
}

// List returns a community's milestones with completion stats for the
// calling user, ordered by target date then creation.
func (s *MilestoneService) List(communityID, currentUserID uint) ([]MilestoneWithStats, error) {
	var milestones []models.Milestone
	err := s.db.Where("community_id = ?", communityID).
		Order("target_date IS NULL, target_date ASC, id ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}

	result := make([]MilestoneWithStats, 0, len(milestones))
	for _, m := range milestones {
		var count int64
		s.db.Model(&models.MilestoneCompletion{}).Where("milestone_id = ?", m.ID).Count(&count)

		var mine int64
		s.db.Model(&models.MilestoneCompletion{}).
			Where("milestone_id = ? AND user_id = ?", m.ID, currentUserID).
			Count(&mine)

		result = append(result, MilestoneWithStats{
			Milestone:          m,
			CompletionCount:    count,
			CompletedByCurrent: mine > 0,
		})
	}

	return result, nil
}

// Complete records a milestone completion for the user. Idempotent: a second
// call returns the existing record instead of inserting a duplicate, and the
// unique (milestone_id, user_id) index guards the race.
func (s *MilestoneService) Complete(milestoneID, userID uint, req *CompleteMilestoneRequest) (*models.MilestoneCompletion, error) {
	var milestone models.Milestone
	if err := s.db.First(&milestone, milestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, err
	}

	var member models.CommunityMember
	err := s.db.Where("community_id = ? AND user_id = ?", milestone.CommunityID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusActive {
		return nil, ErrMemberNotActive
	}

	var existing models.MilestoneCompletion
	err = s.db.Where("milestone_id = ? AND user_id = ?", milestoneID, userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	completion := models.MilestoneCompletion{
		MilestoneID: milestoneID,
		UserID:      userID,
		Note:        req.Note,
		CompletedAt: time.Now(),
	}
	if err := s.db.Create(&completion).Error; err != nil {
		return nil, err
	}

	return &completion, nil
}

// WeightedCompletionRatio computes the user's weighted share of completed
// milestones in a community: sum(weight of completed) / sum(weight of all).
// Returns 0 when the community has no milestones; callers must check
// hasMilestones separately for the settlement decision.
func (s *MilestoneService) WeightedCompletionRatio(communityID, userID uint) (ratio float64, hasMilestones bool, err error) {
	var milestones []models.Milestone
	if err := s.db.Where("community_id = ?", communityID).Find(&milestones).Error; err != nil {
		return 0, false, err
	}
	if len(milestones) == 0 {
		return 0, false, nil
	}

	milestoneIDs := make([]uint, 0, len(milestones))
	weightByID := make(map[uint]int, len(milestones))
	totalWeight := 0
	for _, m := range milestones {
		milestoneIDs = append(milestoneIDs, m.ID)
		weightByID[m.ID] = m.Weight
		totalWeight += m.Weight
	}

	var completions []models.MilestoneCompletion
	if err := s.db.Where("milestone_id IN ? AND user_id = ?", milestoneIDs, userID).Find(&completions).Error; err != nil {
		return 0, false, err
	}

	completedWeight := 0
	for _, c := range completions {
		completedWeight += weightByID[c.MilestoneID]
	}

	if totalWeight == 0 {
		return 0, true, nil
	}
	return float64(completedWeight) / float64(totalWeight), true, nil
}
