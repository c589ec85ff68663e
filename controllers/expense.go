package controllers

import (
	"errors"
	"net/http"
	"time"

	"crazyhouse-backend/config"
	"crazyhouse-backend/models"
	"crazyhouse-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateExpenseInput defines the expected JSON structure for creating an expense
type CreateExpenseInput struct {
	Description string     `json:"description" binding:"required"`
	Amount      float64    `json:"amount" binding:"required,min=0"`
	ExpenseDate *time.Time `json:"expenseDate"`
	Category    string     `json:"category"`
}

// UpdateExpenseInput defines the expected JSON structure for updating an expense
type UpdateExpenseInput struct {
	Description *string    `json:"description"`
	Amount      *float64   `json:"amount" binding:"omitempty,min=0"`
	ExpenseDate *time.Time `json:"expenseDate"`
	Category    *string    `json:"category"`
}

// CreateExpense creates a new expense entry
func CreateExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	expenseDate := time.Now()
	if input.ExpenseDate != nil {
		expenseDate = *input.ExpenseDate
	}

	expense := models.Expense{
		ID:          uuid.New(),
		UserID:      userUUID,
		Description: input.Description,
		Amount:      input.Amount,
		ExpenseDate: expenseDate,
		Category:    input.Category,
	}
	if expense.Category == "" {
		expense.Category = "General"
	}

	if err := config.DB.Create(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// GetExpenses retrieves expenses, optionally filtered by month and category
func GetExpenses(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)

	if month := c.Query("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid month format, expected YYYY-MM")
			return
		}
		query = query.Where("expense_date >= ? AND expense_date < ?", start, start.AddDate(0, 1, 0))
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Order("expense_date desc").Find(&expenses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetExpense retrieves a specific expense by ID
func GetExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	expenseUUID, err := uuid.Parse(expenseID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID format")
		return
	}

	var expense models.Expense
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, expenseUUID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, expense)
}

// UpdateExpense updates an existing expense
func UpdateExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	expenseUUID, err := uuid.Parse(expenseID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID format")
		return
	}

	var input UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var expense models.Expense
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, expenseUUID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.ExpenseDate != nil {
		expense.ExpenseDate = *input.ExpenseDate
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}

	if err := config.DB.Save(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update expense")
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense soft deletes an expense
func DeleteExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	expenseUUID, err := uuid.Parse(expenseID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid expense ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, expenseUUID).
		Delete(&models.Expense{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
