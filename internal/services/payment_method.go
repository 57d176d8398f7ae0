package services

import (
	"errors"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrPaymentKindInvalid    = errors.New("invalid payment method kind")
)

var paymentKinds = map[string]bool{
	"card":   true,
	"bank":   true,
	"paypal": true,
}

// PaymentMethodService stores funding source references. At most one method
// per user is the default; setting a new default clears the previous one in
// the same transaction.
type PaymentMethodService struct {
	db *gorm.DB
}

func NewPaymentMethodService(db *gorm.DB) *PaymentMethodService {
	return &PaymentMethodService{db: db}
}

type CreatePaymentMethodRequest struct {
	Kind       string `json:"kind" binding:"required"`
	Label      string `json:"label" binding:"max=100"`
	MaskedInfo string `json:"masked_info" binding:"max=50"`
	IsDefault  bool   `json:"is_default"`
}

// IsValidPaymentKind reports whether the kind is supported.
func IsValidPaymentKind(kind string) bool {
	return paymentKinds[kind]
}

// List returns the user's payment methods, default first.
func (s *PaymentMethodService) List(userID uint) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&methods).Error
	return methods, err
}

// Create adds a payment method. The user's first method becomes the default
// automatically.
func (s *PaymentMethodService) Create(userID uint, req *CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	if !IsValidPaymentKind(req.Kind) {
		return nil, ErrPaymentKindInvalid
	}

	var count int64
	s.db.Model(&models.PaymentMethod{}).Where("user_id = ?", userID).Count(&count)

	method := models.PaymentMethod{
		UserID:     userID,
		Kind:       req.Kind,
		Label:      req.Label,
		MaskedInfo: req.MaskedInfo,
		IsDefault:  req.IsDefault || count == 0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			if err := tx.Model(&models.PaymentMethod{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&method).Error
	})
	if err != nil {
		return nil, err
	}

	return &method, nil
}

// SetDefault makes the method the user's default, clearing any previous one.
func (s *PaymentMethodService) SetDefault(methodID, userID uint) error {
	var method models.PaymentMethod
	err := s.db.Where("id = ? AND user_id = ?", methodID, userID).First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPaymentMethodNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&method).Update("is_default", true).Error
	})
}

// Delete removes the user's payment method. If the default is removed, the
// oldest remaining method becomes the new default.
func (s *PaymentMethodService) Delete(methodID, userID uint) error {
	var method models.PaymentMethod
	err := s.db.Where("id = ? AND user_id = ?", methodID, userID).First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPaymentMethodNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&method).Error; err != nil {
			return err
		}

		if !method.IsDefault {
			return nil
		}

		var next models.PaymentMethod
		err := tx.Where("user_id = ?", userID).Order("created_at ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}
