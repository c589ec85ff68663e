package routes

import (
	"crazyhouse-backend/config"
	"crazyhouse-backend/controllers"
	"crazyhouse-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		// Motorcycle routes
		motorcycles := api.Group("/motorcycles")
		{
			motorcycles.POST("", controllers.CreateMotorcycle)
			motorcycles.GET("", controllers.GetMotorcycles)
			motorcycles.GET("/:id", controllers.GetMotorcycle)
			motorcycles.PUT("/:id", controllers.UpdateMotorcycle)
			motorcycles.DELETE("/:id", controllers.DeleteMotorcycle)
		}

		// Inventory routes
		inventory := api.Group("/inventory")
		{
			inventory.POST("", controllers.CreateInventoryItem)
			inventory.GET("", controllers.GetInventoryItems)
			inventory.GET("/low-stock", controllers.GetLowStockItems)
			inventory.GET("/:id", controllers.GetInventoryItem)
			inventory.GET("/:id/movements", controllers.GetItemMovements)
			inventory.PUT("/:id", controllers.UpdateInventoryItem)
			inventory.DELETE("/:id", controllers.DeleteInventoryItem)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Expense routes
		expenses := api.Group("/expenses")
		{
			expenses.POST("", controllers.CreateExpense)
			expenses.GET("", controllers.GetExpenses)
			expenses.GET("/:id", controllers.GetExpense)
			expenses.PUT("/:id", controllers.UpdateExpense)
			expenses.DELETE("/:id", controllers.DeleteExpense)
		}

		//Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := auth.Group("/profile", utils.AuthMiddleware())
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-workshop", controllers.UpdateWorkshopProfile)
			profile.PUT("/update-notifications", controllers.UpdateNotifications)
		}
	}

	return r
}
