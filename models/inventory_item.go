package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name             string  `gorm:"not null"`
	Quantity         int     `gorm:"not null;default:0"`
	PriceBought      float64 `gorm:"type:decimal(10,2);default:0.0"`
	PriceSold        float64 `gorm:"type:decimal(10,2);not null"`
	UnitType         string  `gorm:"default:'unidad'"`
	RestockThreshold int     `gorm:"default:0"`

	ServiceItems []ServiceItem `gorm:"foreignKey:InventoryItemID"`

	gorm.Model
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// BelowThreshold reports whether the item should surface a low-stock alert.
// It is a read-only signal; the reconciliation engine never blocks on it.
func (i *InventoryItem) BelowThreshold() bool {
	return i.Quantity <= i.RestockThreshold
}
