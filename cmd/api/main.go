package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker with cycle-based budgets, recurring transactions, and a derived ledger.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators on the Gin binding engine
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	progressService := services.NewProgressService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	recurringService := services.NewRecurringService(db)
	settingsService := services.NewSettingsService(db)
	ledgerService := services.NewLedgerService(db)
	budgetService := services.NewBudgetService(db, settingsService)
	summaryService := services.NewSummaryService(db, settingsService, ledgerService)

	// Materialize any backlogged recurring transactions before serving.
	created, err := recurringService.CatchUp(time.Now())
	if err != nil {
		return fmt.Errorf("recurring catch-up failed: %w", err)
	}
	if created > 0 {
		log.Infof("Recurring catch-up created %d transaction(s)", created)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, progressService, auditService)
	recurringHandler := handlers.NewRecurringHandler(recurringService, progressService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, progressService, auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService, ledgerService)
	progressHandler := handlers.NewProgressHandler(progressService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PATCH("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Recurring rule routes
	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRule)
	recurring.GET("", recurringHandler.ListRules)
	recurring.POST("/catch-up", recurringHandler.CatchUp)
	recurring.GET("/:id", recurringHandler.GetRule)
	recurring.PATCH("/:id", recurringHandler.UpdateRule)
	recurring.DELETE("/:id", recurringHandler.DeleteRule)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.PUT("/overall", budgetHandler.SaveOverallBudget)
	budgets.GET("/overall/:cycle", budgetHandler.GetOverallBudget)
	budgets.DELETE("/overall/:cycle", budgetHandler.DeleteOverallBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("/cycle", settingsHandler.GetCycleSettings)
	settings.PUT("/cycle", settingsHandler.UpdateCycleSettings)
	settings.GET("/cycle/current", settingsHandler.GetCurrentCycle)

	// Summary routes
	summary := protected.Group("/summary")
	summary.GET("/dashboard", summaryHandler.GetDashboard)
	summary.GET("/ledger", summaryHandler.GetLedger)

	// Progress route
	protected.GET("/progress", progressHandler.GetProfile)

	log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
