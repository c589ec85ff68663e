package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement types recorded by the reconciliation engine
const (
	MovementOut = "out" // stock consumed by a service
	MovementIn  = "in"  // stock restored by a service edit or deletion
)

// StockMovement records every quantity adjustment applied to an inventory
// item, with the stock level before and after the change.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;index;not null"`

	Type        string `gorm:"type:varchar(10);not null"` // out, in
	Quantity    int    `gorm:"not null"`                  // signed: positive restores, negative consumes
	StockBefore int    `gorm:"not null"`
	StockAfter  int    `gorm:"not null"`

	ServiceID *uuid.UUID `gorm:"type:uuid;index"` // service that caused the movement
	CreatedAt time.Time
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
