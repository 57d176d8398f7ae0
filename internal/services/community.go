package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

const (
	// MinStartLead is the minimum gap between creation time and start date.
	MinStartLead = 24 * time.Hour
	// MinDuration is the minimum gap between start date and deadline.
	MinDuration = 24 * time.Hour
)

var (
	ErrCommunityNotFound   = errors.New("community not found")
	ErrNotCreator          = errors.New("only the community creator can do this")
	ErrCommunityNotPending = errors.New("community has already started")
	ErrStartTooSoon        = errors.New("start date must be at least 24 hours from now")
	ErrDeadlineTooEarly    = errors.New("deadline must be at least 24 hours after start date")
	ErrStakeNotPositive    = errors.New("staking amount must be positive")
)

type CommunityService struct {
	db    *gorm.DB
	cache *CacheService
}

func NewCommunityService(db *gorm.DB, cache *CacheService) *CommunityService {
	return &CommunityService{db: db, cache: cache}
}

type CommunityListRequest struct {
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
	Name       string `form:"name"`
	Category   string `form:"category"`
	Status     string `form:"status"`
	Visibility string `form:"visibility"`
}

type CommunityListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []models.Community `json:"items"`
}

type CreateCommunityRequest struct {
	Name          string    `json:"name" binding:"required,max=200"`
	Description   string    `json:"description"`
	Goal          string    `json:"goal" binding:"required"`
	GoalAmount    *float64  `json:"goal_amount"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	StakingAmount float64   `json:"staking_amount" binding:"required"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	Deadline      time.Time `json:"deadline" binding:"required"`
	Visibility    string    `json:"visibility" binding:"omitempty,oneof=public private"`
}

type UpdateCommunityRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Goal        string   `json:"goal"`
	GoalAmount  *float64 `json:"goal_amount"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=public private"`
}

// ValidateSchedule checks the community date invariants against a reference
// time. Creation requires start_date >= now+24h and deadline >= start_date+24h.
func ValidateSchedule(now, startDate, deadline time.Time) error {
	if startDate.Before(now.Add(MinStartLead)) {
		return ErrStartTooSoon
	}
	if deadline.Before(startDate.Add(MinDuration)) {
		return ErrDeadlineTooEarly
	}
	return nil
}

// JoinTags joins a tag list into the stored comma-separated form, preserving
// order and dropping empty entries.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

// SplitTags splits the stored form back into an ordered tag list.
func SplitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// List returns paginated communities matching the filters. Private
// communities are excluded unless explicitly requested by a member-aware
// caller (handlers pass visibility="private" only for the user's own lists).
func (s *CommunityService) List(req *CommunityListRequest) (*CommunityListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var communities []models.Community
	var total int64

	query := s.db.Model(&models.Community{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Visibility != "" {
		query = query.Where("visibility = ?", req.Visibility)
	} else {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&communities).Error; err != nil {
		return nil, err
	}

	return &CommunityListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    communities,
	}, nil
}

// GetByID returns a community by ID, served from cache when possible.
func (s *CommunityService) GetByID(id uint) (*models.Community, error) {
	ctx := context.Background()

	var cached models.Community
	if s.cache.GetJSON(ctx, communityKey(id), &cached) {
		return &cached, nil
	}

	var community models.Community
	if err := s.db.First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, communityKey(id), &community, communityCacheTTL)
	return &community, nil
}

// Create validates the draft and creates the community. The creator joins as
// an active member with terms accepted in the same transaction; creators do
// not stake.
func (s *CommunityService) Create(req *CreateCommunityRequest, userID uint) (*models.Community, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Goal) == "" {
		return nil, errors.New("name and goal are required")
	}
	if req.StakingAmount <= 0 {
		return nil, ErrStakeNotPositive
	}
	if err := ValidateSchedule(time.Now(), req.StartDate, req.Deadline); err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	community := models.Community{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Goal:          strings.TrimSpace(req.Goal),
		GoalAmount:    req.GoalAmount,
		Category:      req.Category,
		Tags:          JoinTags(req.Tags),
		StakingAmount: req.StakingAmount,
		StartDate:     req.StartDate,
		Deadline:      req.Deadline,
		Visibility:    visibility,
		Status:        models.CommunityStatusPending,
		CreatorID:     userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}

		creator := models.CommunityMember{
			CommunityID:      community.ID,
			UserID:           userID,
			Role:             models.MemberRoleCreator,
			Status:           models.MemberStatusActive,
			HasAcceptedTerms: true,
			HasStaked:        false,
			JoinedAt:         time.Now(),
		}
		return tx.Create(&creator).Error
	})
	if err != nil {
		return nil, err
	}

	return &community, nil
}

// Update applies a partial update. Only the creator may update, and only
// while the community is still pending.
func (s *CommunityService) Update(id, userID uint, req *UpdateCommunityRequest) (*models.Community, error) {
	var community models.Community
	if err := s.db.First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}

	if community.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if community.Status != models.CommunityStatusPending {
		return nil, ErrCommunityNotPending
	}

	updates := make(map[string]interface{})

	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Goal != "" {
		updates["goal"] = strings.TrimSpace(req.Goal)
	}
	if req.GoalAmount != nil {
		updates["goal_amount"] = req.GoalAmount
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Tags != nil {
		updates["tags"] = JoinTags(req.Tags)
	}
	if req.Visibility != "" {
		updates["visibility"] = req.Visibility
	}

	if len(updates) > 0 {
		if err := s.db.Model(&community).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.cache.InvalidateCommunity(id)
	}

	return &community, nil
}

// Delete removes a community. Creator-only, and only before it starts.
func (s *CommunityService) Delete(id, userID uint) error {
	var community models.Community
	if err := s.db.First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommunityNotFound
		}
		return err
	}

	if community.CreatorID != userID {
		return ErrNotCreator
	}
	if community.Status != models.CommunityStatusPending {
		return ErrCommunityNotPending
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ?", id).Delete(&models.CommunityMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&community).Error
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCommunity(id)
	return nil
}

// ApplyDeadlineExtension moves the deadline forward; used when an
// extend_deadline petition is approved. The new deadline must still respect
// the minimum duration.
func (s *CommunityService) ApplyDeadlineExtension(id uint, newDeadline time.Time) error {
	var community models.Community
	if err := s.db.First(&community, id).Error; err != nil {
		return err
	}

	if !newDeadline.After(community.Deadline) {
		return errors.New("new deadline must be after the current deadline")
	}
	if newDeadline.Before(community.StartDate.Add(MinDuration)) {
		return ErrDeadlineTooEarly
	}

	if err := s.db.Model(&community).Update("deadline", newDeadline).Error; err != nil {
		return err
	}

	s.cache.InvalidateCommunity(id)
	return nil
}

// ApplyStakingChange updates the staking amount; used when a change_staking
// petition is approved. The petition layer guarantees nobody has staked yet.
func (s *CommunityService) ApplyStakingChange(id uint, amount float64) error {
	if amount <= 0 {
		return ErrStakeNotPositive
	}
	if err := s.db.Model(&models.Community{}).Where("id = ?", id).
		Update("staking_amount", amount).Error; err != nil {
		return err
	}
	s.cache.InvalidateCommunity(id)
	return nil
}

// ApplyGoalChange updates the goal text; used when a change_goal petition is
// approved.
func (s *CommunityService) ApplyGoalChange(id uint, goal string) error {
	if strings.TrimSpace(goal) == "" {
		return errors.New("goal cannot be empty")
	}
	if err := s.db.Model(&models.Community{}).Where("id = ?", id).
		Update("goal", strings.TrimSpace(goal)).Error; err != nil {
		return err
	}
	s.cache.InvalidateCommunity(id)
	return nil
}
