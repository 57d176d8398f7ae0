package services

import (
	"errors"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService manages per-user in-app notifications.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

type NotificationListRequest struct {
	Page       int  `form:"page" binding:"min=1"`
	PageSize   int  `form:"page_size" binding:"min=1,max=100"`
	UnreadOnly bool `form:"unread_only"`
}

type NotificationListResponse struct {
	Total    int64                 `json:"total"`
	Unread   int64                 `json:"unread"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Notification `json:"items"`
}

// Create stores a notification for a user.
func (s *NotificationService) Create(userID uint, notifType, title, body string, communityID *uint) error {
	notification := models.Notification{
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Body:        body,
		CommunityID: communityID,
	}
	return s.db.Create(&notification).Error
}

// List returns the user's notifications, newest first, with the unread count.
func (s *NotificationService) List(userID uint, req *NotificationListRequest) (*NotificationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if req.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var unread int64
	s.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	var items []models.Notification
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Total:    total,
		Unread:   unread,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(notificationID, userID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
