package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	settlementLockName = "community_lifecycle_scan"
	settlementLockTTL  = 5 * time.Minute
)

// SettlementService finalizes memberships at the community deadline and
// moves the associated funds. It also owns the pending -> active transition
// at start_date.
type SettlementService struct {
	db              *gorm.DB
	walletSvc       *WalletService
	milestoneSvc    *MilestoneService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	invitationSvc   *InvitationService
	configSvc       *SystemConfigService
	queue           TaskQueue
	cronScheduler   *cron.Cron
	instanceID      string
}

func NewSettlementService(db *gorm.DB, queue TaskQueue) *SettlementService {
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	walletSvc := NewWalletService(db)
	return &SettlementService{
		db:              db,
		walletSvc:       walletSvc,
		milestoneSvc:    NewMilestoneService(db),
		notificationSvc: NewNotificationService(db),
		emailSvc:        NewEmailService(db),
		invitationSvc:   NewInvitationService(db, NewMemberService(db, walletSvc)),
		configSvc:       NewSystemConfigService(db),
		queue:           queue,
		instanceID:      fmt.Sprintf("%s-%d", host, os.Getpid()),
	}
}

// MemberOutcome decides a member's terminal status. A member completes when
// final progress reached 100, or, for communities with milestones, when the
// weighted milestone completion ratio meets the threshold.
func MemberOutcome(progress, weightedRatio float64, hasMilestones bool, threshold float64) string {
	if progress >= 100 {
		return models.MemberStatusCompleted
	}
	if hasMilestones && weightedRatio >= threshold {
		return models.MemberStatusCompleted
	}
	return models.MemberStatusFailed
}

// RewardShare splits a forfeited-stake pool equally among completers,
// rounded down to cents so the pool is never overdrawn.
func RewardShare(forfeitedPool float64, completers int) float64 {
	if completers <= 0 || forfeitedPool <= 0 {
		return 0
	}
	share := forfeitedPool / float64(completers)
	return math.Floor(share*100) / 100
}

// ActivateDueCommunities transitions pending communities whose start date
// has passed to active.
func (s *SettlementService) ActivateDueCommunities(now time.Time) (int, error) {
	result := s.db.Model(&models.Community{}).
		Where("status = ? AND start_date <= ?", models.CommunityStatusPending, now).
		Update("status", models.CommunityStatusActive)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infof("[Settlement] Activated %d communities", result.RowsAffected)
	}
	return int(result.RowsAffected), nil
}

// EnqueueDueSettlements finds active communities past their deadline and
// enqueues one settlement task per community.
func (s *SettlementService) EnqueueDueSettlements(now time.Time) (int, error) {
	var due []models.Community
	err := s.db.Where("status = ? AND deadline <= ?", models.CommunityStatusActive, now).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	for _, c := range due {
		if err := s.queue.Enqueue(&SettlementTask{CommunityID: c.ID}); err != nil {
			logger.Errorf("[Settlement] Failed to enqueue community %d: %v", c.ID, err)
			continue
		}
	}
	return len(due), nil
}

// SettleCommunity finalizes every membership of a community and moves funds.
// Idempotent: a community that is no longer active is skipped, and the whole
// settlement runs in one DB transaction.
func (s *SettlementService) SettleCommunity(ctx context.Context, communityID uint) error {
	var community models.Community
	if err := s.db.First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommunityNotFound
		}
		return err
	}

	if community.Status != models.CommunityStatusActive {
		logger.Debug().Uint("community_id", communityID).Str("status", community.Status).
			Msg("settlement skipped, community not active")
		return nil
	}

	threshold := s.configSvc.GetFloat("settlement_threshold", 1.0)
	rewardEnabled := s.configSvc.GetBool("settlement_reward_enabled", true)

	var members []models.CommunityMember
	if err := s.db.Where("community_id = ?", communityID).Find(&members).Error; err != nil {
		return err
	}

	type memberResult struct {
		member  models.CommunityMember
		outcome string
	}

	results := make([]memberResult, 0, len(members))
	completedStakers := 0
	forfeitedPool := 0.0

	for _, m := range members {
		if m.Status != models.MemberStatusActive {
			// Never activated. A stake confirmed before terms were accepted
			// still forfeits like any other failure; the funds must not
			// vanish from the ledger.
			results = append(results, memberResult{member: m, outcome: models.MemberStatusFailed})
			if m.HasStaked {
				forfeitedPool += community.StakingAmount
			}
			continue
		}

		ratio, hasMilestones, err := s.milestoneSvc.WeightedCompletionRatio(communityID, m.UserID)
		if err != nil {
			return err
		}

		outcome := MemberOutcome(m.Progress, ratio, hasMilestones, threshold)
		results = append(results, memberResult{member: m, outcome: outcome})

		if m.HasStaked {
			if outcome == models.MemberStatusCompleted {
				completedStakers++
			} else {
				forfeitedPool += community.StakingAmount
			}
		}
	}

	reward := 0.0
	if rewardEnabled {
		reward = RewardShare(forfeitedPool, completedStakers)
	}

	communityOutcome := models.CommunityStatusFailed
	for _, r := range results {
		if r.outcome == models.MemberStatusCompleted {
			communityOutcome = models.CommunityStatusCompleted
			break
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			if err := tx.Model(&models.CommunityMember{}).
				Where("id = ?", r.member.ID).
				Update("status", r.outcome).Error; err != nil {
				return err
			}

			if !r.member.HasStaked || r.outcome != models.MemberStatusCompleted {
				continue
			}

			cid := community.ID
			refundDesc := fmt.Sprintf("Stake refund for community %q", community.Name)
			if _, err := s.walletSvc.applyTransaction(tx, r.member.UserID, community.StakingAmount, models.TxTypeRefund, refundDesc, &cid); err != nil {
				return err
			}

			if reward > 0 {
				rewardDesc := fmt.Sprintf("Reward from community %q", community.Name)
				if _, err := s.walletSvc.applyTransaction(tx, r.member.UserID, reward, models.TxTypeReward, rewardDesc, &cid); err != nil {
					return err
				}
			}
		}

		return tx.Model(&community).Update("status", communityOutcome).Error
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		s.notifySettlement(&community, &r.member, r.outcome, reward)
	}

	LogInfo("settlement", "settle_community",
		fmt.Sprintf("community %d settled as %s (%d members, %d completed stakers, pool %.2f)",
			community.ID, communityOutcome, len(results), completedStakers, forfeitedPool),
		nil, "", "", nil)

	logger.Info().
		Uint("community_id", community.ID).
		Str("outcome", communityOutcome).
		Int("members", len(results)).
		Float64("forfeited_pool", forfeitedPool).
		Float64("reward_share", reward).
		Msg("community settled")

	return nil
}

func (s *SettlementService) notifySettlement(community *models.Community, member *models.CommunityMember, outcome string, reward float64) {
	cid := community.ID
	title := fmt.Sprintf("Community %q has been settled", community.Name)
	var body string
	if outcome == models.MemberStatusCompleted {
		body = fmt.Sprintf("Congratulations, you completed the goal. Your stake of %.2f has been refunded.", community.StakingAmount)
		if reward > 0 && member.HasStaked {
			body += fmt.Sprintf(" You also earned a reward of %.2f.", reward)
		}
	} else {
		body = "The deadline passed before you completed the goal."
		if member.HasStaked {
			body += fmt.Sprintf(" Your stake of %.2f was forfeited.", community.StakingAmount)
		}
	}

	if err := s.notificationSvc.Create(member.UserID, models.NotificationTypeSettlement, title, body, &cid); err != nil {
		logger.Warnf("[Settlement] Notification for user %d failed: %v", member.UserID, err)
	}

	var user models.User
	if err := s.db.First(&user, member.UserID).Error; err == nil {
		if err := s.emailSvc.SendSettlementEmail(&user, community, outcome, reward); err != nil {
			logger.Warnf("[Settlement] Email for user %d failed: %v", member.UserID, err)
		}
	}
}

// ProcessTask is the queue processor entrypoint.
func (s *SettlementService) ProcessTask(ctx context.Context, task *SettlementTask) error {
	return s.SettleCommunity(ctx, task.CommunityID)
}

// RunScan performs one lifecycle pass: activations plus settlement
// enqueueing, guarded by the scheduler lock.
func (s *SettlementService) RunScan() {
	if !s.acquireLock() {
		return
	}
	defer s.releaseLock()

	now := time.Now()
	if _, err := s.ActivateDueCommunities(now); err != nil {
		logger.Errorf("[Settlement] Activation scan failed: %v", err)
	}
	if _, err := s.EnqueueDueSettlements(now); err != nil {
		logger.Errorf("[Settlement] Settlement scan failed: %v", err)
	}
	if _, err := s.invitationSvc.ExpireStale(now); err != nil {
		logger.Errorf("[Settlement] Invitation expiry scan failed: %v", err)
	}
}

// StartScheduler starts the periodic lifecycle scan.
func (s *SettlementService) StartScheduler(intervalMinutes int) {
	if intervalMinutes <= 0 {
		intervalMinutes = 1
	}

	s.cronScheduler = cron.New()
	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := s.cronScheduler.AddFunc(spec, s.RunScan); err != nil {
		logger.Errorf("[Settlement] Failed to schedule lifecycle scan: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[Settlement] Lifecycle scheduler started (%s)", spec)
}

// StopScheduler stops the periodic scan.
func (s *SettlementService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// acquireLock grabs the scan lock via the unique (lock_name, lock_key)
// index. Expired locks from crashed instances are cleared first.
func (s *SettlementService) acquireLock() bool {
	now := time.Now()
	s.db.Where("lock_name = ? AND expires_at < ?", settlementLockName, now).
		Delete(&models.SchedulerLock{})

	lock := models.SchedulerLock{
		LockName:  settlementLockName,
		LockKey:   "singleton",
		LockedBy:  s.instanceID,
		LockedAt:  now,
		ExpiresAt: now.Add(settlementLockTTL),
	}
	if err := s.db.Create(&lock).Error; err != nil {
		// Another instance holds the lock.
		return false
	}
	return true
}

func (s *SettlementService) releaseLock() {
	s.db.Where("lock_name = ? AND locked_by = ?", settlementLockName, s.instanceID).
		Delete(&models.SchedulerLock{})
}
