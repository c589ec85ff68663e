package controllers

import (
	"net/http"
	"time"

	"crazyhouse-backend/config"
	"crazyhouse-backend/models"
	"crazyhouse-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LowStockEntry struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Quantity         int       `json:"quantity"`
	RestockThreshold int       `json:"restockThreshold"`
}

type RecentService struct {
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"clientName"`
	Description string    `json:"description"`
	TotalValue  float64   `json:"totalValue"`
	ServiceDate time.Time `json:"serviceDate"`
}

// GetDashboardOverview returns the headline numbers for the workshop
func GetDashboardOverview(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Total Clients
	var totalClients int64
	config.DB.Model(&models.Client{}).Where("user_id = ?", userUUID).Count(&totalClients)

	// This Month's Income (services) and Expenses
	now := time.Now()
	firstOfMonth := utils.BeginningOfMonth(now)

	var monthlyIncome float64
	config.DB.Model(&models.Service{}).
		Where("user_id = ? AND service_date >= ?", userUUID, firstOfMonth).
		Select("COALESCE(SUM(total_value), 0)").Scan(&monthlyIncome)

	var monthlyExpenses float64
	config.DB.Model(&models.Expense{}).
		Where("user_id = ? AND expense_date >= ?", userUUID, firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthlyExpenses)

	// Total Services
	var totalServices int64
	config.DB.Model(&models.Service{}).Where("user_id = ?", userUUID).Count(&totalServices)

	// Items below their restock threshold
	var lowStock []LowStockEntry
	config.DB.Model(&models.InventoryItem{}).
		Where("user_id = ? AND quantity <= restock_threshold", userUUID).
		Order("quantity asc").Limit(7).
		Select("id, name, quantity, restock_threshold").
		Scan(&lowStock)

	// Recent Services (last 5)
	var recentServices []RecentService
	config.DB.Table("services").
		Select("services.id, clients.name AS client_name, services.description, services.total_value, services.service_date").
		Joins("JOIN clients ON clients.id = services.client_id").
		Where("services.user_id = ? AND services.deleted_at IS NULL", userUUID).
		Order("services.service_date DESC").Limit(5).
		Scan(&recentServices)

	response := gin.H{
		"totalClients":    totalClients,
		"totalServices":   totalServices,
		"monthlyIncome":   monthlyIncome,
		"monthlyExpenses": monthlyExpenses,
		"monthlyProfit":   monthlyIncome - monthlyExpenses,
		"lowStock": gin.H{
			"count": len(lowStock),
			"list":  lowStock,
		},
		"recentServices": recentServices,
	}

	c.JSON(http.StatusOK, response)
}
