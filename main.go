package main

import (
	"fmt"
	"log"
	"os"

	"crazyhouse-backend/config"
	"crazyhouse-backend/models"
	"crazyhouse-backend/routes"
	"crazyhouse-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Motorcycle{},
		&models.InventoryItem{},
		&models.Service{},
		&models.ServiceItem{},
		&models.StockMovement{},
		&models.Expense{},
		&models.AlertLog{},
	)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	lowStock := services.NewLowStockService(config.DB)
	lowStock.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
