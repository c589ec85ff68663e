package controllers

import (
	"net/http"

	"crazyhouse-backend/config"
	"crazyhouse-backend/models"
	"crazyhouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateWorkshopInput struct {
	WorkshopName    string `json:"workshopName"`
	WorkshopAddress string `json:"workshopAddress"`
	Phone           string `json:"phone"`
	Name            string `json:"name"`
}

type UpdateNotificationsInput struct {
	LowStockAlerts        *bool `json:"lowStockAlerts"`
	WhatsAppNotifications *bool `json:"whatsAppNotifications"`
}

func GetProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                  user.Name,
		"email":                 user.Email,
		"phone":                 user.Phone,
		"workshopName":          user.WorkshopName,
		"workshopAddress":       user.WorkshopAddress,
		"lowStockAlerts":        user.LowStockAlerts,
		"whatsAppNotifications": user.WhatsAppNotifications,
	})
}

func UpdateWorkshopProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateWorkshopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.WorkshopName != "" {
		user.WorkshopName = input.WorkshopName
	}
	if input.WorkshopAddress != "" {
		user.WorkshopAddress = input.WorkshopAddress
	}
	if input.Phone != "" {
		if !utils.ValidatePhone(input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		user.Phone = input.Phone
	}
	if input.Name != "" {
		user.Name = input.Name
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func UpdateNotifications(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateNotificationsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.LowStockAlerts != nil {
		user.LowStockAlerts = *input.LowStockAlerts
	}
	if input.WhatsAppNotifications != nil {
		user.WhatsAppNotifications = *input.WhatsAppNotifications
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated successfully"})
}
