package services

import (
	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

// ProgressService reads the append-only progress history. Writing happens
// through MemberService.UpdateProgress so the log entry and the member's
// current progress are committed together.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

type ProgressLogListRequest struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

type ProgressLogListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ProgressLog `json:"items"`
}

// ListLogs returns a member's progress history, newest first.
func (s *ProgressService) ListLogs(memberID uint, req *ProgressLogListRequest) (*ProgressLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.ProgressLog
	var total int64

	query := s.db.Model(&models.ProgressLog{}).Where("member_id = ?", memberID)
	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("logged_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &ProgressLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}
