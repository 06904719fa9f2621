package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/config"
	"orghub-server/internal/handlers"
	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/notify"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	departmentHandler := handlers.NewDepartmentHandler(db)
	eventHandler := handlers.NewEventHandler(db)
	attendanceHandler := handlers.NewAttendanceHandler(db)
	financeHandler := handlers.NewFinanceHandler(db)
	messageHandler := handlers.NewMessageHandler(db, notifier)
	announcementHandler := handlers.NewAnnouncementHandler(db, notifier)
	reportHandler := handlers.NewReportHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
			authRoutesPrivate.POST("/change-password", authHandler.ChangePassword)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Member directory - accessible by all authenticated users
			userRoutes.GET("/directory", userHandler.GetDirectory)

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Department routes
		departmentRoutes := private.Group("/departments")
		{
			// All authenticated users can browse departments
			departmentRoutes.GET("", departmentHandler.GetDepartments)
			departmentRoutes.GET("/:id", departmentHandler.GetDepartmentByID)

			adminDeptRoutes := departmentRoutes.Group("")
			adminDeptRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminDeptRoutes.POST("", departmentHandler.CreateDepartment)
				adminDeptRoutes.PUT("/:id", departmentHandler.UpdateDepartment)
				adminDeptRoutes.DELETE("/:id", departmentHandler.DeleteDepartment)
				adminDeptRoutes.POST("/:id/members", departmentHandler.AssignMembers)
				adminDeptRoutes.DELETE("/:id/members/:userId", departmentHandler.RemoveMember)
			}
		}

		// Event routes
		eventRoutes := private.Group("/events")
		{
			eventRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleManager, models.RoleAdmin), eventHandler.CreateEvent)
			eventRoutes.GET("", eventHandler.GetEvents)
			eventRoutes.GET("/:id", eventHandler.GetEventByID)

			// Management operations; ownership checked inside the handler
			eventRoutes.PUT("/:id", eventHandler.UpdateEvent)
			eventRoutes.PATCH("/:id/status", eventHandler.UpdateEventStatus)
			eventRoutes.DELETE("/:id", eventHandler.DeleteEvent)

			// Attendance for an event
			eventRoutes.POST("/:id/attendance", attendanceHandler.MarkAttendance)
			eventRoutes.GET("/:id/attendance", attendanceHandler.GetEventAttendance)
		}

		// Caller's own attendance history
		private.GET("/attendance", attendanceHandler.GetUserAttendance)

		// Finance routes (managers and admins)
		financeRoutes := private.Group("/finance")
		financeRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleAdmin))
		{
			financeRoutes.POST("/entries", financeHandler.CreateEntry)
			financeRoutes.GET("/entries", financeHandler.GetEntries)
			financeRoutes.GET("/summary", financeHandler.GetSummary)
			financeRoutes.DELETE("/entries/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), financeHandler.DeleteEntry)
		}

		// Messaging routes
		messageRoutes := private.Group("/messages")
		{
			messageRoutes.POST("/send", messageHandler.SendMessage)
			messageRoutes.GET("/inbox", messageHandler.GetInbox)
			messageRoutes.GET("/sent", messageHandler.GetSent)
			messageRoutes.GET("/drafts", messageHandler.GetDrafts)
			messageRoutes.POST("/:messageId/send", messageHandler.SendDraft)
			messageRoutes.GET("/:messageId/thread", messageHandler.GetThread)
			messageRoutes.PATCH("/:messageId/read", messageHandler.MarkMessageAsRead)
			messageRoutes.PATCH("/:messageId/star", messageHandler.StarMessage)
			messageRoutes.DELETE("/:messageId", messageHandler.DeleteMessage)
		}

		// Announcement routes
		announcementRoutes := private.Group("/announcements")
		{
			announcementRoutes.GET("", announcementHandler.GetAnnouncements)

			managerRoutes := announcementRoutes.Group("")
			managerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleAdmin))
			{
				managerRoutes.POST("", announcementHandler.CreateAnnouncement)
				managerRoutes.GET("/mine", announcementHandler.GetOwnAnnouncements)
				managerRoutes.PUT("/:id", announcementHandler.UpdateAnnouncement)
				managerRoutes.POST("/:id/publish", announcementHandler.PublishAnnouncement)
				managerRoutes.DELETE("/:id", announcementHandler.DeleteAnnouncement)
			}
		}

		// Report routes (managers and admins)
		reportRoutes := private.Group("/reports")
		reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleAdmin))
		{
			reportRoutes.POST("", reportHandler.CreateReport)
			reportRoutes.GET("", reportHandler.GetReports)
			reportRoutes.GET("/due", reportHandler.GetDueReports)
			reportRoutes.GET("/:id", reportHandler.GetReportByID)
			reportRoutes.PUT("/:id", reportHandler.UpdateReport)
			reportRoutes.POST("/:id/run", reportHandler.MarkReportRun)
			reportRoutes.DELETE("/:id", reportHandler.DeleteReport)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
