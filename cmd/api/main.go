// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrackhq/fintrack-backend/internal/api/handlers"
	"github.com/fintrackhq/fintrack-backend/internal/api/middleware"
	"github.com/fintrackhq/fintrack-backend/internal/config"
	"github.com/fintrackhq/fintrack-backend/internal/cron"
	"github.com/fintrackhq/fintrack-backend/internal/db"
	"github.com/fintrackhq/fintrack-backend/internal/email"
	"github.com/fintrackhq/fintrack-backend/internal/notification"
	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/seed"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/fintrackhq/fintrack-backend/internal/socket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	postgres, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer postgres.Close()
	log.Println("Connected to PostgreSQL")

	repos := repository.NewRepositories(postgres.Pool)

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		log.Println("Email service initialized")
	} else {
		log.Println("Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Initialize WebSocket Registry
	// ============================================
	registry := socket.NewRegistry()
	wsHandler := socket.NewHandler(registry, cfg.JWTSecret)
	dispatcher := notification.NewDispatcher(registry)
	log.Println("WebSocket registry initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize Services and Handlers
	// ============================================
	var cache service.Cache
	if redisDB != nil {
		cache = redisDB
	}

	services := service.NewServices(&service.ServiceDeps{
		Config:   cfg,
		Repos:    repos,
		Notifier: dispatcher,
		EmailSvc: emailSvc,
		Cache:    cache,
	})

	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(repos.PaymentRequestRepo, dispatcher)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": registry.OnlineCount(),
			"email":      getEmailStatus(emailSvc),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================

		// User sync, called by the identity provider webhook / frontend
		users := api.Group("/users")
		{
			users.POST("", h.User.Sync)
			users.GET("/:id", h.User.Get)
			users.PUT("/:id", h.User.Update)
		}

		// WebSocket route (token passed as query parameter)
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			workspaces := protected.Group("/workspaces")
			{
				workspaces.GET("", h.Workspace.List)
				workspaces.POST("", h.Workspace.Create)
				workspaces.POST("/join", h.Workspace.Join)
				workspaces.GET("/:id", h.Workspace.Get)
				workspaces.PATCH("/:id", h.Workspace.Update)
				workspaces.POST("/:id/invites", h.Workspace.Invite)
				workspaces.DELETE("/:id/members/:userId", h.Workspace.RemoveMember)
				workspaces.PATCH("/:id/members/:userId/salary", h.Workspace.SetMemberSalary)
			}

			payments := protected.Group("/payment-requests")
			{
				payments.POST("", h.Payment.Create)
				payments.GET("", h.Payment.List)
				payments.PATCH("/:id/status", h.Payment.UpdateStatus)
			}

			messages := protected.Group("/messages")
			{
				messages.POST("", h.Message.Send)
				messages.GET("/workspace/:workspaceId", h.Message.ListByWorkspace)
				messages.PATCH("/:id/read", h.Message.MarkRead)
			}
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getEmailStatus(emailSvc *email.Service) string {
	if emailSvc != nil {
		return "configured"
	}
	return "disabled"
}
