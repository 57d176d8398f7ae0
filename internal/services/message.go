package services

import (
	"errors"
	"strings"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

var ErrEmptyMessage = errors.New("message content cannot be empty")

// MessageService is the community chat board. Members only, append-only.
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

type PostMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MessageWithAuthor struct {
	models.Message
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type MessageListRequest struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

type MessageListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []MessageWithAuthor `json:"items"`
}

// Post appends a message to the community board. Any member (pending
// included) may post.
func (s *MessageService) Post(communityID, authorID uint, req *PostMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var count int64
	s.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, authorID).
		Count(&count)
	if count == 0 {
		return nil, ErrMembershipNotFound
	}

	message := models.Message{
		CommunityID: communityID,
		AuthorID:    authorID,
		Content:     content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

// List returns the community's messages with author info, newest first.
// Members only.
func (s *MessageService) List(communityID, userID uint, req *MessageListRequest) (*MessageListResponse, error) {
	var count int64
	s.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count)
	if count == 0 {
		return nil, ErrMembershipNotFound
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 50
	}

	query := s.db.Model(&models.Message{}).Where("messages.community_id = ?", communityID)

	var total int64
	query.Count(&total)

	var items []MessageWithAuthor
	offset := (req.Page - 1) * req.PageSize
	err := query.
		Select("messages.*, users.username, users.display_name, users.avatar").
		Joins("JOIN users ON users.id = messages.author_id").
		Order("messages.created_at DESC, messages.id DESC").
		Offset(offset).Limit(req.PageSize).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return &MessageListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}
