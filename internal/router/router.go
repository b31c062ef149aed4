package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/handlers"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/mailer"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/middleware"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/worker"

	"github.com/gin-gonic/gin"
)

// Config carries everything Setup needs beyond the engine and database.
type Config struct {
	Mail             mailer.Config
	MarketingFile    string // flat-file mirror of the marketing list
	DispatchInterval time.Duration
}

// Setup wires repositories, services, and handlers onto the engine and
// returns the background dispatcher for main to start.
func Setup(engine *gin.Engine, db *sql.DB, cfg Config) *worker.Dispatcher {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	userRepo := repositories.NewUserRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	marketingRepo := repositories.NewMarketingRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	sender := mailer.NewSMTPSender(cfg.Mail)

	// Initialize Services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, db)
	settingService := services.NewSettingService(settingRepo, db)
	clientService := services.NewClientService(clientRepo, settingService, db)
	templateService := services.NewTemplateService(templateRepo, db)
	emailService := services.NewEmailService(clientRepo, templateService, sender, db)
	dispatchService := services.NewDispatchService(clientRepo, templateService, sender, db)
	marketingService := services.NewMarketingService(marketingRepo, clientRepo, sender, db, cfg.MarketingFile)
	exportService := services.NewExportService(clientRepo)
	reportService := services.NewReportService(clientRepo, marketingRepo)

	dispatcher := worker.NewDispatcher(dispatchService, cfg.DispatchInterval)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	emailHandler := handlers.NewEmailHandler(emailService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	marketingHandler := handlers.NewMarketingHandler(marketingService)
	settingHandler := handlers.NewSettingHandler(settingService)
	exportHandler := handlers.NewExportHandler(exportService)
	reportHandler := handlers.NewReportHandler(reportService)
	dispatchHandler := handlers.NewDispatchHandler(dispatcher)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupClientRoutes(authenticated, clientHandler, emailHandler, exportHandler)
		SetupTemplateRoutes(authenticated, templateHandler)
		SetupMarketingRoutes(authenticated, marketingHandler)
		SetupUserRoutes(authenticated, userHandler)
		SetupSettingsRoutes(authenticated, settingHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupDispatchRoutes(authenticated, dispatchHandler)
	}

	return dispatcher
}
