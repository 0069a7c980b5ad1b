package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"bud/internal/config"
	"bud/internal/database"
	"bud/internal/handlers"
	"bud/internal/logger"
	"bud/internal/middleware"
	"bud/internal/services"
	"bud/internal/validator"
)

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

	// Register custom validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	projectService := services.NewProjectService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	recurrenceService := services.NewRecurrenceService(db)
	forecastService := services.NewForecastService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(projectService)
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	recurrenceHandler := handlers.NewRecurrenceHandler(recurrenceService)
	forecastHandler := handlers.NewForecastHandler(forecastService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Project routes
	projects := v1.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/materialize", budgetHandler.MaterializeBudget)
	budgets.GET("/:id/report", reportHandler.GetReport)

	// Forecast routes
	forecasts := v1.Group("/forecasts")
	forecasts.POST("", forecastHandler.CreateForecast)
	forecasts.GET("", forecastHandler.GetForecasts)
	forecasts.GET("/:id", forecastHandler.GetForecast)
	forecasts.PUT("/:id", forecastHandler.UpdateForecast)
	forecasts.POST("/:id/recurrence", forecastHandler.MakeRecurrent)
	forecasts.DELETE("/:id", forecastHandler.DeleteForecast)

	// Recurrence routes
	recurrences := v1.Group("/recurrences")
	recurrences.GET("", recurrenceHandler.GetRecurrences)
	recurrences.GET("/:id", recurrenceHandler.GetRecurrence)
	recurrences.PUT("/:id", recurrenceHandler.UpdateRecurrence)
	recurrences.POST("/:id/propagate", recurrenceHandler.PropagateRecurrence)
	recurrences.DELETE("/:id", recurrenceHandler.DeleteRecurrence)

	log.Infof("Starting bud backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
