package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Expense struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string    `gorm:"not null"`
	Amount      float64   `gorm:"type:decimal(10,2);not null"`
	ExpenseDate time.Time `gorm:"not null"`
	Category    string    `gorm:"default:'General'"`

	gorm.Model
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
