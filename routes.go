// Package main is the entry point for the Auth Session API
package main

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mine969/authsessionapi/api/session"
	"github.com/mine969/authsessionapi/api/user"
	"github.com/mine969/authsessionapi/api/web"
	"github.com/mine969/authsessionapi/config"
	"github.com/mine969/authsessionapi/shared/logger"
	"github.com/mine969/authsessionapi/shared/middleware"
	"github.com/mine969/authsessionapi/shared/response"
)

// setupRoutes configures the routes for the service
func setupRoutes(e *echo.Echo, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, audit *logger.Logger) {
	e.Renderer = web.NewRenderer()

	userService := user.NewService(db)
	sessionService := session.NewService(redisClient, time.Duration(cfg.SessionTTLSecs)*time.Second)
	webHandler := web.NewHandler(userService, sessionService, audit)

	// Public pages
	e.GET("/", webHandler.Home)
	e.GET("/register", webHandler.RegisterForm)
	e.POST("/register", webHandler.Register)
	e.GET("/login", webHandler.LoginForm)
	e.POST("/login", webHandler.Login)
	e.GET("/logout", webHandler.Logout)

	// Protected pages
	protected := e.Group("", middleware.SessionAuth(sessionService, userService))
	protected.GET("/protected", webHandler.Protected)

	// API status route
	e.GET("/api/status", statusRoute(cfg))
}

// statusRoute reports the service name and version
func statusRoute(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		message := fmt.Sprintf("%s %s", cfg.APIName, cfg.APIVersion)
		return response.SuccessResponse(c, message)
	}
}
