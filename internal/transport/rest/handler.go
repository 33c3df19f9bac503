package rest

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		// Публичная ссылка записи: профиль и слоты без авторизации.
		public := api.Group("/public")
		{
			public.GET("/:slug", h.getPublicProfessional)
			public.GET("/:slug/slots", h.getPublicSlots)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.PUT("/me", h.updateCurrentUser)
			users.PUT("/me/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.GET("/:id", h.getUserByID)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		professionals := api.Group("/professionals")
		{
			professionals.GET("/", h.getProfessionals)
			professionals.GET("/me", h.authMiddleware(), h.professionalMiddleware(), h.getMyProfessionalProfile)
			professionals.GET("/:id", h.getProfessionalByID)
			professionals.GET("/:id/slots", h.getProfessionalSlots)
			professionals.GET("/:id/slots/range", h.getProfessionalSlotsRange)

			auth := professionals.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.professionalMiddleware(), h.createProfessional)
				auth.PUT("/:id", h.updateProfessional)
				auth.DELETE("/:id", h.deleteProfessional)

				auth.POST("/:id/photo", h.uploadProfessionalPhoto)
				auth.DELETE("/:id/photo", h.deleteProfessionalPhoto)
			}
		}

		patients := api.Group("/patients")
		patients.Use(h.authMiddleware())
		{
			patients.POST("/", h.patientMiddleware(), h.createPatient)
			patients.GET("/me", h.patientMiddleware(), h.getMyPatientProfile)
			patients.PUT("/me", h.patientMiddleware(), h.updateMyPatientProfile)
		}

		availability := api.Group("/availability")
		availability.Use(h.authMiddleware(), h.professionalMiddleware())
		{
			availability.POST("/rules", h.createAvailabilityRule)
			availability.GET("/rules", h.listAvailabilityRules)
			availability.PUT("/rules/:id", h.updateAvailabilityRule)
			availability.DELETE("/rules/:id", h.deleteAvailabilityRule)

			availability.POST("/blackouts", h.createBlackout)
			availability.GET("/blackouts", h.listBlackouts)
			availability.DELETE("/blackouts/:id", h.deleteBlackout)
		}

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.POST("/", h.patientMiddleware(), h.createAppointment)
			appointments.GET("/", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.DELETE("/:id", h.cancelAppointment)
			appointments.POST("/:id/complete", h.professionalMiddleware(), h.completeAppointment)
		}

		chats := api.Group("/chats")
		chats.Use(h.authMiddleware())
		{
			chats.POST("/", h.patientMiddleware(), h.openChat)
			chats.GET("/", h.getChats)
			chats.GET("/:id/messages", h.getChatMessages)
			chats.POST("/:id/messages", h.sendChatMessage)
			chats.POST("/:id/slots", h.patientMiddleware(), h.suggestChatSlots)
			chats.POST("/:id/book", h.patientMiddleware(), h.bookFromChat)
		}

		notifications := api.Group("/notifications")
		notifications.Use(h.authMiddleware())
		{
			notifications.GET("/", h.getNotifications)
			notifications.POST("/:id/read", h.markNotificationRead)
			notifications.POST("/read-all", h.markAllNotificationsRead)
		}

		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(h.authMiddleware())
		{
			subscriptions.POST("/", h.adminMiddleware(), h.activateSubscription)
			subscriptions.GET("/me", h.professionalMiddleware(), h.getMySubscriptions)
		}

		metrics := api.Group("/metrics")
		metrics.Use(h.authMiddleware(), h.professionalMiddleware())
		{
			metrics.GET("/me", h.getMyMetrics)
		}
	}
}
