package services

import (
	"testing"
	"time"

	"crazyhouse-backend/models"

	"github.com/google/uuid"
)

func TestLowStockItemsSelection(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&models.User{}, &models.AlertLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userID := uuid.New()
	otherUser := uuid.New()

	items := []models.InventoryItem{
		{UserID: userID, Name: "Aceite", Quantity: 1, PriceSold: 7, RestockThreshold: 3},
		{UserID: userID, Name: "Bujía", Quantity: 3, PriceSold: 3, RestockThreshold: 3},
		{UserID: userID, Name: "Cadena", Quantity: 9, PriceSold: 20, RestockThreshold: 2},
		{UserID: otherUser, Name: "Filtro", Quantity: 0, PriceSold: 4, RestockThreshold: 5},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("failed to seed item: %v", err)
		}
	}

	svc := NewLowStockService(db)
	low, err := svc.LowStockItems(userID)
	if err != nil {
		t.Fatalf("LowStockItems failed: %v", err)
	}

	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock items, got %d", len(low))
	}
	// Lowest stock first, boundary quantity == threshold included,
	// foreign user's items excluded
	if low[0].Name != "Aceite" || low[1].Name != "Bujía" {
		t.Fatalf("unexpected low-stock ordering: %s, %s", low[0].Name, low[1].Name)
	}
}

func TestAlertedTodayThrottle(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&models.AlertLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userID := uuid.New()
	svc := NewLowStockService(db)

	if svc.alertedToday(userID) {
		t.Fatalf("user with no alert history should not be throttled")
	}

	yesterday := models.AlertLog{UserID: userID, Status: "sent", SentAt: time.Now().AddDate(0, 0, -1)}
	if err := db.Create(&yesterday).Error; err != nil {
		t.Fatalf("failed to seed alert log: %v", err)
	}
	if svc.alertedToday(userID) {
		t.Fatalf("yesterday's alert should not throttle today")
	}

	failedToday := models.AlertLog{UserID: userID, Status: "failed", SentAt: time.Now()}
	if err := db.Create(&failedToday).Error; err != nil {
		t.Fatalf("failed to seed alert log: %v", err)
	}
	if svc.alertedToday(userID) {
		t.Fatalf("a failed delivery should not throttle retries")
	}

	sentToday := models.AlertLog{UserID: userID, Status: "sent", SentAt: time.Now()}
	if err := db.Create(&sentToday).Error; err != nil {
		t.Fatalf("failed to seed alert log: %v", err)
	}
	if !svc.alertedToday(userID) {
		t.Fatalf("a sent alert from today should throttle the next run")
	}
}

func TestBelowThreshold(t *testing.T) {
	item := models.InventoryItem{Quantity: 2, RestockThreshold: 2}
	if !item.BelowThreshold() {
		t.Fatalf("quantity equal to threshold should alert")
	}
	item.Quantity = 3
	if item.BelowThreshold() {
		t.Fatalf("quantity above threshold should not alert")
	}
}
