// controllers/service.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"crazyhouse-backend/config"
	"crazyhouse-backend/models"
	"crazyhouse-backend/services"
	"crazyhouse-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceItemInput defines the structure for one usage line
type ServiceItemInput struct {
	InventoryItemID uuid.UUID `json:"inventoryItemId" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required,min=1"`
	UnitPrice       *float64  `json:"unitPrice" binding:"omitempty,min=0"`
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	ClientID     uuid.UUID          `json:"clientId" binding:"required"`
	MotorcycleID uuid.UUID          `json:"motorcycleId" binding:"required"`
	ServiceDate  *time.Time         `json:"serviceDate"`
	Description  string             `json:"description"`
	LaborCost    float64            `json:"laborCost" binding:"min=0"`
	Items        []ServiceItemInput `json:"items"`
	Notes        string             `json:"notes"`
}

// engine builds a reconciliation engine over the active database handle
func engine() *services.ReconciliationEngine {
	return services.NewReconciliationEngine(config.DB)
}

func draftFromInput(input CreateServiceInput) services.ServiceDraft {
	serviceDate := time.Now()
	if input.ServiceDate != nil {
		serviceDate = *input.ServiceDate
	}

	draft := services.ServiceDraft{
		ClientID:     input.ClientID,
		MotorcycleID: input.MotorcycleID,
		ServiceDate:  serviceDate,
		Description:  input.Description,
		LaborCost:    input.LaborCost,
		Notes:        input.Notes,
	}
	for _, item := range input.Items {
		draft.Items = append(draft.Items, services.UsageLine{
			InventoryItemID: item.InventoryItemID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
		})
	}
	return draft
}

// respondWithEngineError maps the engine's error taxonomy to HTTP statuses
func respondWithEngineError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		notFound     *services.NotFoundError
		insufficient *services.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		utils.RespondWithError(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &insufficient):
		utils.RespondWithError(c, http.StatusConflict, insufficient.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// CreateService records a new service and decrements the stock of every
// product it used
func CreateService(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := engine().CreateService(userUUID, draftFromInput(input))
	if err != nil {
		respondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services for the workshop
func GetServices(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Where("user_id = ?", userUUID)
	if clientID := c.Query("clientId"); clientID != "" {
		clientUUID, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("client_id = ?", clientUUID)
	}

	var servicesList []models.Service
	if err := query.Order("service_date desc").Find(&servicesList).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, servicesList)
}

// GetService retrieves a specific service by ID
func GetService(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	serviceID := c.Param("id")
	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, serviceUUID).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService replaces a service's fields and usage list, applying the
// net inventory change per item
func UpdateService(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	serviceID := c.Param("id")
	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := engine().UpdateService(userUUID, serviceUUID, draftFromInput(input))
	if err != nil {
		respondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service and restores the stock it consumed
func DeleteService(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	serviceID := c.Param("id")
	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	if err := engine().DeleteService(userUUID, serviceUUID); err != nil {
		respondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
