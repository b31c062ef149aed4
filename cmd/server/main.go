package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/database"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/mailer"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/router"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/worker"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	// Database configuration
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "diving_crm_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "diving_crm_password")
	dbName := utils.Getenv("DB_NAME", "diving_crm_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	dbConn, err := database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbConn.Close()

	// SMTP configuration
	smtpPort, err := strconv.Atoi(utils.Getenv("SMTP_PORT", "465"))
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}
	mailCfg := mailer.Config{
		Host:     utils.Getenv("SMTP_HOST", "smtp.gmail.com"),
		Port:     smtpPort,
		Username: utils.Getenv("SMTP_USERNAME", ""),
		Password: utils.Getenv("SMTP_PASSWORD", ""),
		From:     utils.Getenv("SMTP_FROM", utils.Getenv("SMTP_USERNAME", "")),
		UseSSL:   utils.Getenv("SMTP_USE_SSL", "true") == "true",
	}

	// Dispatcher configuration
	dispatchInterval := worker.DefaultInterval
	if raw := utils.Getenv("DISPATCH_INTERVAL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid DISPATCH_INTERVAL: %v", err)
		}
		dispatchInterval = parsed
	}

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	dispatcher := router.Setup(engine, dbConn, router.Config{
		Mail:             mailCfg,
		MarketingFile:    utils.Getenv("MARKETING_EMAILS_FILE", "marketing_emails.txt"),
		DispatchInterval: dispatchInterval,
	})

	// Run the feedback dispatcher until the process is told to stop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go dispatcher.Start(ctx)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
