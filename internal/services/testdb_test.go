package services

import (
	"testing"
	"time"

	"github.com/mujtama/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityMember{},
		&models.ProgressLog{},
		&models.Milestone{},
		&models.MilestoneCompletion{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Invitation{},
		&models.Petition{},
		&models.PetitionVote{},
		&models.Notification{},
		&models.SystemConfig{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     "user",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestCommunity(t *testing.T, db *gorm.DB, creatorID uint, status string, stake float64) *models.Community {
	t.Helper()
	now := time.Now()
	community := models.Community{
		Name:          "Morning Run Club",
		Goal:          "Run every morning before work",
		StakingAmount: stake,
		StartDate:     now.Add(-48 * time.Hour),
		Deadline:      now.Add(-time.Hour),
		Visibility:    models.VisibilityPublic,
		Status:        status,
		CreatorID:     creatorID,
	}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("failed to create community: %v", err)
	}
	return &community
}

func createTestMember(t *testing.T, db *gorm.DB, communityID, userID uint, status string, staked bool, progress float64) *models.CommunityMember {
	t.Helper()
	member := models.CommunityMember{
		CommunityID:      communityID,
		UserID:           userID,
		Role:             models.MemberRoleMember,
		Status:           status,
		HasAcceptedTerms: status == models.MemberStatusActive,
		HasStaked:        staked,
		Progress:         progress,
		JoinedAt:         time.Now(),
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return &member
}
