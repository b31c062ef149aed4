package router

import (
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/handlers"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/middleware"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupClientRoutes sets up the client record routes, including the manual
// email actions and the Excel export.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler, emailHandler *handlers.EmailHandler, exportHandler *handlers.ExportHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	clientRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/export", exportHandler.ExportClients)
		clientRoutes.POST("/send-feedback-all", emailHandler.SendFeedbackAll)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
		clientRoutes.POST("/:id/send-feedback", emailHandler.SendFeedback)
		clientRoutes.POST("/:id/send-custom", emailHandler.SendCustom)
		clientRoutes.GET("/:id/email-preview", emailHandler.PreviewFeedback)
	}
}

// SetupTemplateRoutes sets up the email template editor routes. Admin only.
func SetupTemplateRoutes(authenticatedGroup *gin.RouterGroup, templateHandler *handlers.TemplateHandler) {
	templateRoutes := authenticatedGroup.Group("/templates")
	templateRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		templateRoutes.GET("/:type", templateHandler.GetTemplates)
		templateRoutes.PUT("/:type", templateHandler.SaveTemplates)
		templateRoutes.DELETE("/:type", templateHandler.ResetTemplates)
		templateRoutes.DELETE("", templateHandler.ClearAllTemplates)
	}
}

// SetupMarketingRoutes sets up the marketing list and campaign routes. Admin only.
func SetupMarketingRoutes(authenticatedGroup *gin.RouterGroup, marketingHandler *handlers.MarketingHandler) {
	marketingRoutes := authenticatedGroup.Group("/marketing-lists")
	marketingRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		marketingRoutes.POST("", marketingHandler.SaveList)
		marketingRoutes.GET("", marketingHandler.GetEmails)
		marketingRoutes.DELETE("", marketingHandler.ClearAll)
		marketingRoutes.DELETE("/:id", marketingHandler.DeleteEmail)
	}

	authenticatedGroup.POST("/marketing/send", middleware.RoleAuthMiddleware(models.RoleAdmin), marketingHandler.SendCampaign)
}

// SetupUserRoutes sets up the user administration routes. Admin only.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		userRoutes.POST("", userHandler.CreateUser)
		userRoutes.GET("", userHandler.GetUsers)
		userRoutes.DELETE("/:id", userHandler.DeleteUser)
	}
}

// SetupSettingsRoutes sets up the application settings routes. Admin only.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		settingsRoutes.GET("", settingHandler.GetSettings)
		settingsRoutes.GET("/:key", settingHandler.GetSettingByKey)
		settingsRoutes.PUT("/vat-rate", settingHandler.SetVATRate)
	}
}

// SetupReportRoutes sets up the reporting and dashboard routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		reportRoutes.GET("/revenue", reportHandler.GetRevenueReport)
	}

	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		dashboardRoutes.GET("/summary", reportHandler.GetDashboardSummary)
	}
}

// SetupDispatchRoutes sets up the dispatcher control routes. Admin only.
func SetupDispatchRoutes(authenticatedGroup *gin.RouterGroup, dispatchHandler *handlers.DispatchHandler) {
	dispatchRoutes := authenticatedGroup.Group("/dispatch")
	dispatchRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		dispatchRoutes.POST("/run", dispatchHandler.RunNow)
		dispatchRoutes.GET("/status", dispatchHandler.Status)
	}
}
