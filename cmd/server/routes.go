package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/handlers"
	"github.com/mujtama/backend/internal/middleware"
	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Invitation lookup is public: invitees may not have an account yet
		invitationHandler := handlers.NewInvitationHandler(models.GetDB())
		api.GET("/invitations/:token", invitationHandler.GetByToken)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.PUT("/auth/me", svc.authHandler.UpdateProfile)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB())
			protected.GET("/dashboard", dashboardHandler.GetStats)

			// Communities
			communityHandler := handlers.NewCommunityHandler(models.GetDB(), svc.cache)
			protected.GET("/communities", communityHandler.List)
			protected.GET("/communities/:id", communityHandler.GetByID)
			protected.POST("/communities", communityHandler.Create)
			protected.PUT("/communities/:id", communityHandler.Update)
			protected.DELETE("/communities/:id", communityHandler.Delete)

			// Membership
			memberHandler := handlers.NewMemberHandler(models.GetDB())
			protected.POST("/communities/:id/join", memberHandler.Join)
			protected.GET("/communities/:id/members", memberHandler.ListMembers)
			protected.GET("/communities/:id/membership", memberHandler.GetMyMembership)
			protected.POST("/members/:id/accept-terms", memberHandler.AcceptTerms)
			protected.POST("/members/:id/stake", memberHandler.ConfirmStake)
			protected.PUT("/members/:id/progress", memberHandler.UpdateProgress)
			protected.GET("/members/:id/progress", memberHandler.ListProgress)
			protected.DELETE("/members/:id", memberHandler.Withdraw)

			// Milestones
			milestoneHandler := handlers.NewMilestoneHandler(models.GetDB())
			protected.POST("/communities/:id/milestones", milestoneHandler.Create)
			protected.GET("/communities/:id/milestones", milestoneHandler.List)
			protected.POST("/milestones/:id/complete", milestoneHandler.Complete)

			// Wallet
			walletHandler := handlers.NewWalletHandler(models.GetDB())
			protected.GET("/wallet", walletHandler.GetBalance)
			protected.GET("/wallet/transactions", walletHandler.ListTransactions)
			protected.POST("/wallet/deposit", walletHandler.Deposit)
			protected.POST("/wallet/withdraw", walletHandler.Withdraw)

			// Invitations
			protected.POST("/communities/:id/invitations", invitationHandler.Create)
			protected.GET("/communities/:id/invitations", invitationHandler.ListForCommunity)
			protected.POST("/invitations/:token/accept", invitationHandler.Accept)
			protected.POST("/invitations/:token/decline", invitationHandler.Decline)

			// Petitions
			petitionHandler := handlers.NewPetitionHandler(models.GetDB(), svc.cache)
			protected.POST("/communities/:id/petitions", petitionHandler.Create)
			protected.GET("/communities/:id/petitions", petitionHandler.List)
			protected.POST("/petitions/:id/vote", petitionHandler.Vote)

			// Messages
			messageHandler := handlers.NewMessageHandler(models.GetDB())
			protected.POST("/communities/:id/messages", messageHandler.Post)
			protected.GET("/communities/:id/messages", messageHandler.List)

			// Notifications
			notificationHandler := handlers.NewNotificationHandler(models.GetDB())
			protected.GET("/notifications", notificationHandler.List)
			protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
			protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

			// Payment methods
			paymentMethodHandler := handlers.NewPaymentMethodHandler(models.GetDB())
			protected.GET("/payment-methods", paymentMethodHandler.List)
			protected.POST("/payment-methods", paymentMethodHandler.Create)
			protected.POST("/payment-methods/:id/default", paymentMethodHandler.SetDefault)
			protected.DELETE("/payment-methods/:id", paymentMethodHandler.Delete)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/logs", systemLogHandler.List)
			admin.GET("/logs/modules", systemLogHandler.GetModules)

			systemConfigHandler := handlers.NewSystemConfigHandler(models.GetDB())
			admin.GET("/configs/:group", systemConfigHandler.GetByGroup)
			admin.PUT("/configs", systemConfigHandler.Update)
		}
	}
}
