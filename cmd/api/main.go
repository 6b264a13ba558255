package main

import (
	"fmt"
	"net/http"
	"os"

	"santimsentry/internal/config"
	"santimsentry/internal/database"
	"santimsentry/internal/handlers"
	"santimsentry/internal/logger"
	"santimsentry/internal/middleware"
	"santimsentry/internal/services"
	"santimsentry/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "santimsentry/internal/docs" // Import swagger docs
)

// @title           Santim Sentry API
// @version         1.0
// @description     Santim Sentry is a personal finance tracker for Ethiopian users with Telebirr wallet top-ups, Fayda national-ID login, and AI-generated financial insights.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	notificationService := services.NewNotificationService(db)
	transactionService := services.NewTransactionService(db, notificationService)
	summaryService := services.NewSummaryService(db)
	walletService := services.NewWalletService(db, notificationService, services.TopUpDelay)
	reportService := services.NewReportService(db)
	advisorService := services.NewAdvisorService(summaryService, appConfig.GeminiAPIURL, appConfig.GeminiAPIKey)
	faydaService := services.NewFaydaService(db, userService, appConfig)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService, userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, summaryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	telebirrHandler := handlers.NewTelebirrHandler(walletService)
	reportHandler := handlers.NewReportHandler(reportService)
	advisorHandler := handlers.NewAdvisorHandler(advisorService)
	faydaHandler := handlers.NewFaydaHandler(faydaService, appConfig)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", appConfig.FrontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.GuestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// OIDC redirect URI registered with the identity provider; must stay at
	// the root, outside the /api prefix.
	router.GET("/callback", faydaHandler.Callback)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/fayda/login", faydaHandler.Login)

	api.POST("/profile", profileHandler.CreateProfile)
	api.GET("/profile/:username", profileHandler.GetProfile)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(db))

	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/auth/me", authHandler.UpdateMe)
	protected.DELETE("/auth/me", authHandler.DeleteMe)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/categories", transactionHandler.GetCategories)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	telebirr := protected.Group("/telebirr")
	telebirr.POST("/pay", telebirrHandler.Pay)
	telebirr.POST("/ai/pay", telebirrHandler.PayForInsights)

	protected.GET("/reports/monthly", reportHandler.GetMonthlyReport)
	protected.GET("/ai/insights", advisorHandler.GetInsights)

	log.Infof("Starting Santim Sentry backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
