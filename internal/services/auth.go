package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mujtama/backend/internal/config"
	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	configSvc *SystemConfigService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		configSvc: NewSystemConfigService(db),
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	User            *models.User
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// Register creates a new local user account.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:    username,
		Email:       email,
		Password:    hash,
		DisplayName: req.DisplayName,
		Role:        "user",
		IsActive:    true,
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates a user and returns access + refresh tokens.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	accessHours := s.jwtConfig.ExpireHour
	if accessHours <= 0 {
		accessHours = 24
	}
	refreshHours := s.configSvc.GetInt("refresh_token_expire_hours", 168)

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, accessHours)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpireAt := time.Now().Add(time.Duration(refreshHours) * time.Hour)
	refreshRecord := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   refreshHash,
		ExpiresAt:   refreshExpireAt,
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}
	if err := s.db.Create(&refreshRecord).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: refreshExpireAt,
		User:            &user,
	}, nil
}

// Refresh rotates a refresh token and issues a new access token.
func (s *AuthService) Refresh(refreshToken string, clientIP, userAgent string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token required")
	}

	hash := hashRefreshToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid refresh token")
		}
		return nil, err
	}

	if stored.RevokedAt != nil {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	var user models.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	accessHours := s.jwtConfig.ExpireHour
	if accessHours <= 0 {
		accessHours = 24
	}
	refreshHours := s.configSvc.GetInt("refresh_token_expire_hours", 168)

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, accessHours)
	if err != nil {
		return nil, err
	}

	newRefreshToken, newHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpireAt := time.Now().Add(time.Duration(refreshHours) * time.Hour)
	newRecord := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   newHash,
		ExpiresAt:   refreshExpireAt,
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRecord).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           &now,
			"replaced_by_token_id": newRecord.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: refreshExpireAt,
	}, nil
}

// Logout revokes the given refresh token.
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	hash := hashRefreshToken(refreshToken)
	now := time.Now()
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", &now).Error
}

// ChangePassword verifies the old password and sets a new one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if !utils.CheckPassword(oldPassword, user.Password) {
		return errors.New("current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", hash).Error
}

// CreateAdminIfNotExists seeds the default admin account on first start.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:    "admin",
		Email:       "admin@localhost",
		Password:    hash,
		DisplayName: "Administrator",
		Role:        "admin",
		IsActive:    true,
	}
	return s.db.Create(&admin).Error
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, hashRefreshToken(token), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
