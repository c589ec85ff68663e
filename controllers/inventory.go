package controllers

import (
	"errors"
	"net/http"

	"crazyhouse-backend/config"
	"crazyhouse-backend/models"
	"crazyhouse-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInventoryItemInput defines the expected JSON structure for creating an item
type CreateInventoryItemInput struct {
	Name             string  `json:"name" binding:"required"`
	Quantity         int     `json:"quantity" binding:"min=0"`
	PriceBought      float64 `json:"priceBought" binding:"min=0"`
	PriceSold        float64 `json:"priceSold" binding:"required,min=0"`
	UnitType         string  `json:"unitType"`
	RestockThreshold int     `json:"restockThreshold" binding:"min=0"`
}

// UpdateInventoryItemInput defines the expected JSON structure for updating an item
type UpdateInventoryItemInput struct {
	Name             *string  `json:"name"`
	Quantity         *int     `json:"quantity" binding:"omitempty,min=0"`
	PriceBought      *float64 `json:"priceBought" binding:"omitempty,min=0"`
	PriceSold        *float64 `json:"priceSold" binding:"omitempty,min=0"`
	UnitType         *string  `json:"unitType"`
	RestockThreshold *int     `json:"restockThreshold" binding:"omitempty,min=0"`
}

// CreateInventoryItem creates a new inventory item for the workshop
func CreateInventoryItem(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateInventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item := models.InventoryItem{
		ID:               uuid.New(),
		UserID:           userUUID,
		Name:             input.Name,
		Quantity:         input.Quantity,
		PriceBought:      input.PriceBought,
		PriceSold:        input.PriceSold,
		UnitType:         input.UnitType,
		RestockThreshold: input.RestockThreshold,
	}
	if item.UnitType == "" {
		item.UnitType = "unidad"
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create inventory item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetInventoryItems retrieves all inventory items for the workshop
func GetInventoryItems(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var items []models.InventoryItem
	if err := config.DB.Where("user_id = ?", userUUID).
		Order("name asc").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve inventory")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetLowStockItems retrieves items at or below their restock threshold
func GetLowStockItems(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var items []models.InventoryItem
	if err := config.DB.Where("user_id = ? AND quantity <= restock_threshold", userUUID).
		Order("quantity asc").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve low stock items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetInventoryItem retrieves a specific inventory item by ID
func GetInventoryItem(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID := c.Param("id")
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var item models.InventoryItem
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, itemUUID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetItemMovements retrieves the stock movement history of an item
func GetItemMovements(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID := c.Param("id")
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var movements []models.StockMovement
	if err := config.DB.Where("user_id = ? AND inventory_item_id = ?", userUUID, itemUUID).
		Order("created_at desc").Find(&movements).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock movements")
		return
	}

	c.JSON(http.StatusOK, movements)
}

// UpdateInventoryItem updates an existing inventory item
func UpdateInventoryItem(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID := c.Param("id")
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var input UpdateInventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.InventoryItem
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, itemUUID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided. Catalog price changes never touch stored
	// service snapshots.
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.PriceBought != nil {
		item.PriceBought = *input.PriceBought
	}
	if input.PriceSold != nil {
		item.PriceSold = *input.PriceSold
	}
	if input.UnitType != nil {
		item.UnitType = *input.UnitType
	}
	if input.RestockThreshold != nil {
		item.RestockThreshold = *input.RestockThreshold
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update inventory item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteInventoryItem soft deletes an inventory item
func DeleteInventoryItem(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID := c.Param("id")
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, itemUUID).
		Delete(&models.InventoryItem{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete inventory item")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}
