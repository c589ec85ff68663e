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

// CreateMotorcycleInput defines the expected JSON structure for creating a motorcycle
type CreateMotorcycleInput struct {
	ClientID uuid.UUID `json:"clientId" binding:"required"`
	Brand    string    `json:"brand" binding:"required"`
	Model    string    `json:"model" binding:"required"`
	Plate    string    `json:"plate" binding:"required"`
	Year     int       `json:"year"`
}

// UpdateMotorcycleInput defines the expected JSON structure for updating a motorcycle
type UpdateMotorcycleInput struct {
	ClientID *uuid.UUID `json:"clientId"`
	Brand    *string    `json:"brand"`
	Model    *string    `json:"model"`
	Plate    *string    `json:"plate"`
	Year     *int       `json:"year"`
}

// CreateMotorcycle creates a new motorcycle for a client
func CreateMotorcycle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateMotorcycleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePlate(input.Plate) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate format")
		return
	}

	// Validate client exists in the same workshop
	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, input.ClientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	motorcycle := models.Motorcycle{
		ID:       uuid.New(),
		UserID:   userUUID,
		ClientID: input.ClientID,
		Brand:    input.Brand,
		Model:    input.Model,
		Plate:    input.Plate,
		Year:     input.Year,
	}

	if err := config.DB.Create(&motorcycle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create motorcycle")
		return
	}

	c.JSON(http.StatusCreated, motorcycle)
}

// GetMotorcycles retrieves all motorcycles, optionally filtered by client
func GetMotorcycles(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)
	if clientID := c.Query("clientId"); clientID != "" {
		clientUUID, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("client_id = ?", clientUUID)
	}

	var motorcycles []models.Motorcycle
	if err := query.Find(&motorcycles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve motorcycles")
		return
	}

	c.JSON(http.StatusOK, motorcycles)
}

// GetMotorcycle retrieves a specific motorcycle by ID
func GetMotorcycle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	motorcycleID := c.Param("id")
	motorcycleUUID, err := uuid.Parse(motorcycleID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid motorcycle ID format")
		return
	}

	var motorcycle models.Motorcycle
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, motorcycleUUID).
		First(&motorcycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Motorcycle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, motorcycle)
}

// UpdateMotorcycle updates an existing motorcycle
func UpdateMotorcycle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	motorcycleID := c.Param("id")
	motorcycleUUID, err := uuid.Parse(motorcycleID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid motorcycle ID format")
		return
	}

	var input UpdateMotorcycleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var motorcycle models.Motorcycle
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, motorcycleUUID).
		First(&motorcycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Motorcycle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.ClientID != nil {
		// Validate new owner exists in the same workshop
		var client models.Client
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.ClientID).
			First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		motorcycle.ClientID = *input.ClientID
	}
	if input.Brand != nil {
		motorcycle.Brand = *input.Brand
	}
	if input.Model != nil {
		motorcycle.Model = *input.Model
	}
	if input.Plate != nil {
		if !utils.ValidatePlate(*input.Plate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate format")
			return
		}
		motorcycle.Plate = *input.Plate
	}
	if input.Year != nil {
		motorcycle.Year = *input.Year
	}

	if err := config.DB.Save(&motorcycle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update motorcycle")
		return
	}

	c.JSON(http.StatusOK, motorcycle)
}

// DeleteMotorcycle soft deletes a motorcycle
func DeleteMotorcycle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	motorcycleID := c.Param("id")
	motorcycleUUID, err := uuid.Parse(motorcycleID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid motorcycle ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, motorcycleUUID).
		Delete(&models.Motorcycle{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete motorcycle")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Motorcycle not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Motorcycle deleted successfully"})
}
