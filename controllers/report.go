// controllers/report.go
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

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthIncome   float64          `json:"currentMonthIncome"`
	MonthGrowth          float64          `json:"monthGrowth"`
	CurrentQuarterIncome float64          `json:"currentQuarterIncome"`
	QuarterGrowth        float64          `json:"quarterGrowth"`
	CurrentYearIncome    float64          `json:"currentYearIncome"`
	YearGrowth           float64          `json:"yearGrowth"`
	MonthlySeries        []MonthlyEntry   `json:"monthlySeries"`
	TopProducts          []ProductSummary `json:"topProducts"`
	TopClients           []ClientSummary  `json:"topClients"`
}

type MonthlyEntry struct {
	Month    string  `json:"month"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

type ProductSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ClientSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

// GetReportAnalytics returns income/expense aggregates and top rankings
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthIncome, err := rc.getIncome(userUUID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly income")
		return
	}

	lastMonthIncome, err := rc.getIncome(userUUID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month income")
		return
	}

	currentQuarterIncome, err := rc.getIncome(userUUID,
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly income")
		return
	}

	lastQuarterIncome, err := rc.getIncome(userUUID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter income")
		return
	}

	currentYearIncome, err := rc.getIncome(userUUID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly income")
		return
	}

	lastYearIncome, err := rc.getIncome(userUUID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year income")
		return
	}

	monthlySeries, err := rc.getMonthlySeries(userUUID, now, 12)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly series")
		return
	}

	topProducts, err := rc.getTopProducts(userUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top products")
		return
	}

	topClients, err := rc.getTopClients(userUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top clients")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthIncome:   currentMonthIncome,
		MonthGrowth:          rc.calculateGrowthPercentage(currentMonthIncome, lastMonthIncome),
		CurrentQuarterIncome: currentQuarterIncome,
		QuarterGrowth:        rc.calculateGrowthPercentage(currentQuarterIncome, lastQuarterIncome),
		CurrentYearIncome:    currentYearIncome,
		YearGrowth:           rc.calculateGrowthPercentage(currentYearIncome, lastYearIncome),
		MonthlySeries:        monthlySeries,
		TopProducts:          topProducts,
		TopClients:           topClients,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) getIncome(userID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Service{}).
		Where("user_id = ? AND service_date BETWEEN ? AND ?", userID, start, end).
		Select("COALESCE(SUM(total_value), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getExpenses(userID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Expense{}).
		Where("user_id = ? AND expense_date BETWEEN ? AND ?", userID, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// getMonthlySeries builds income/expense totals for the trailing months,
// oldest first
func (rc *ReportController) getMonthlySeries(userID uuid.UUID, now time.Time, months int) ([]MonthlyEntry, error) {
	series := make([]MonthlyEntry, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := utils.BeginningOfMonth(now).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)

		income, err := rc.getIncome(userID, start, end)
		if err != nil {
			return nil, err
		}
		expenses, err := rc.getExpenses(userID, start, end)
		if err != nil {
			return nil, err
		}

		series = append(series, MonthlyEntry{
			Month:    start.Format("2006-01"),
			Income:   income,
			Expenses: expenses,
			Profit:   income - expenses,
		})
	}
	return series, nil
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopProducts(userID uuid.UUID, start, end time.Time, limit int) ([]ProductSummary, error) {
	var products []ProductSummary

	err := config.DB.Table("service_items").
		Select("service_items.item_name AS name, SUM(service_items.quantity) AS count, SUM(service_items.total_price) AS revenue").
		Joins("JOIN services ON services.id = service_items.service_id").
		Where("services.user_id = ? AND services.service_date BETWEEN ? AND ? AND services.deleted_at IS NULL", userID, start, end).
		Group("service_items.item_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&products).Error

	return products, err
}

func (rc *ReportController) getTopClients(userID uuid.UUID, start, end time.Time, limit int) ([]ClientSummary, error) {
	var clients []ClientSummary

	err := config.DB.Table("services").
		Select("clients.name, COUNT(services.id) AS visits, SUM(services.total_value) AS spent").
		Joins("JOIN clients ON clients.id = services.client_id").
		Where("services.user_id = ? AND services.service_date BETWEEN ? AND ? AND services.deleted_at IS NULL", userID, start, end).
		Group("clients.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&clients).Error

	return clients, err
}
