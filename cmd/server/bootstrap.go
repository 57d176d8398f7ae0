package main

import (
	"github.com/mujtama/backend/internal/config"
	"github.com/mujtama/backend/internal/handlers"
	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/internal/utils"
	"github.com/mujtama/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cache             *services.CacheService
	settlementService *services.SettlementService
	taskQueue         services.TaskQueue
	worker            *services.Worker
	authHandler       *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB())

	// Community read cache (nil when Redis is disabled or unreachable)
	cache := services.NewCacheService(&cfg.Redis)

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	settlementService := services.NewSettlementService(models.GetDB(), taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(settlementService.ProcessTask)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(settlementService.ProcessTask)
			worker.Start()
		}
	}

	// Community lifecycle scheduler: activations, settlements, invite expiry
	settlementService.StartScheduler(cfg.Settlement.ScanIntervalMinutes)

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cache:             cache,
		settlementService: settlementService,
		taskQueue:         taskQueue,
		worker:            worker,
		authHandler:       authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.settlementService.StopScheduler()
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if s.cache != nil {
		s.cache.Close()
	}
}
