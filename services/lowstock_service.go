// services/lowstock_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"crazyhouse-backend/models"
	"crazyhouse-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type LowStockService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewLowStockService(db *gorm.DB) *LowStockService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &LowStockService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *LowStockService) StartScheduler() {
	c := cron.New()

	// Run every day at 8 AM
	c.AddFunc("0 8 * * *", func() {
		s.SendDailyAlerts()
	})

	c.Start()
	log.Println("Low-stock scheduler started")
}

func (s *LowStockService) SendDailyAlerts() {
	log.Println("Starting daily low-stock processing...")

	var users []models.User
	if err := s.db.Find(&users, "is_active = ? AND low_stock_alerts = ?", true, true).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	for _, user := range users {
		s.ProcessUserAlerts(user)
	}

	log.Println("Daily low-stock processing completed")
}

func (s *LowStockService) ProcessUserAlerts(user models.User) {
	items, err := s.LowStockItems(user.ID)
	if err != nil {
		log.Printf("User %s: Failed to get low-stock items: %v", user.ID, err)
		return
	}
	if len(items) == 0 {
		return
	}
	if user.Phone == "" {
		log.Printf("User %s: %d items below threshold but no phone configured", user.ID, len(items))
		return
	}
	if s.alertedToday(user.ID) {
		log.Printf("User %s: alert already sent today, skipping", user.ID)
		return
	}

	s.sendAlert(user, items)
}

// alertedToday reports whether a successful alert already went out for
// this user since midnight. At most one message per user per day.
func (s *LowStockService) alertedToday(userID uuid.UUID) bool {
	var last models.AlertLog
	err := s.db.Where("user_id = ? AND status = ?", userID, "sent").
		Order("sent_at desc").
		First(&last).Error
	if err != nil {
		return false
	}
	return utils.DaysBetween(last.SentAt, time.Now()) < 1
}

// LowStockItems returns the user's items at or below their restock
// threshold, lowest stock first.
func (s *LowStockService) LowStockItems(userID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.Where("user_id = ? AND quantity <= restock_threshold", userID).
		Order("quantity asc").
		Find(&items).Error
	return items, err
}

func (s *LowStockService) sendAlert(user models.User, items []models.InventoryItem) {
	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s: %d %s (mínimo %d)",
			item.Name, item.Quantity, item.UnitType, item.RestockThreshold))
	}
	message := fmt.Sprintf("Hola %s, estos productos están por debajo del stock mínimo:\n%s",
		user.Name, strings.Join(lines, "\n"))

	// Determine channel (WhatsApp if enabled and phone is E.164, else SMS)
	channel := "sms"
	to := user.Phone
	if user.WhatsAppNotifications && strings.HasPrefix(user.Phone, "+") {
		to = "whatsapp:" + user.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send low-stock alert to %s: %v", user.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Low-stock alert sent to %s, SID: %s", user.Phone, *resp.Sid)
	} else {
		log.Printf("Low-stock alert sent to %s, but no SID returned", user.Phone)
	}

	alertLog := models.AlertLog{
		UserID:       user.ID,
		Message:      message,
		ItemCount:    len(items),
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&alertLog).Error; err != nil {
		log.Printf("Failed to log alert for user %s: %v", user.ID, err)
	}
}
