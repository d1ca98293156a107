// Package main is the entry point for the Auth Session API
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mine969/authsessionapi/config"
	"github.com/mine969/authsessionapi/database"
	"github.com/mine969/authsessionapi/services"
	"github.com/mine969/authsessionapi/shared/logger"
	"github.com/mine969/authsessionapi/shared/middleware"
	"github.com/mine969/authsessionapi/shared/zaplogger"
)

func main() {
	// Setup logger
	defer zaplogger.Sync()

	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()

	zaplogger.Info(config.SingleLine)
	zaplogger.Info("Auth Session API")

	cfg, err := config.Get()
	if err != nil {
		zaplogger.Fatal("failed to load configuration", zaplogger.Fields{"error": err})
	}
	zaplogger.Info("  * loaded")
	zaplogger.SetLogLevel(cfg.ServerLogLevel)

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Setup middleware
	middleware.SetupLoggerMiddleware(e)

	// Connect to Postgres
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	// Connect Redis
	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Setup the audit logger
	audit, err := logger.New(db)
	if err != nil {
		log.Fatalf("Failed to setup audit logger: %v", err)
	}

	// Setup routes
	setupRoutes(e, cfg, db, redisClient, audit)

	// Setup and start cron jobs
	cronService, err := services.NewCronService(cfg, db, redisClient, audit)
	if err != nil {
		log.Fatalf("Failed to setup cron service: %v", err)
	}
	cronService.Start()

	// Start the server
	startServer(e, cfg)
}

// startServer starts the Echo server on the configured port
func startServer(e *echo.Echo, cfg *config.Config) {
	port := cfg.ServerPort
	if port == "" {
		port = "3001"
	}
	startupMessage := fmt.Sprintf("%s %s Server [:%s] started", cfg.APIName, cfg.APIVersion, port)

	zaplogger.Info(config.SingleLine)
	zaplogger.Info(startupMessage)
	zaplogger.Info(config.SingleLine)
	e.Logger.Fatal(e.Start(":" + port))
}
