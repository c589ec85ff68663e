package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ClientID     uuid.UUID `gorm:"type:uuid;index;not null"`
	MotorcycleID uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceDate  time.Time `gorm:"not null"`

	Description string
	LaborCost   float64 `gorm:"type:decimal(10,2);not null"`
	TotalValue  float64 `gorm:"type:decimal(10,2);not null"`
	Notes       string

	Items []ServiceItem `gorm:"foreignKey:ServiceID"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ServiceItem is a snapshot of one inventory item consumed by a service.
// Name and unit price are copied at the time the line is created so that
// historical totals never change when the catalog is edited later.
type ServiceItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceID       uuid.UUID `gorm:"type:uuid;index;not null"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;index;not null"`
	ItemName        string    `gorm:"not null"`
	Quantity        int       `gorm:"default:1"`
	UnitPrice       float64   `gorm:"type:decimal(10,2);not null"`
	TotalPrice      float64   `gorm:"type:decimal(10,2);not null"`
}

func (si *ServiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return
}
