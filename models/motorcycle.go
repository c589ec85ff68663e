package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps are declared explicitly: the Model field of the bike would
// clash with an embedded gorm.Model.
type Motorcycle struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	Brand string `gorm:"not null"`
	Model string `gorm:"not null"`
	Plate string `gorm:"not null"`
	Year  int

	Services []Service `gorm:"foreignKey:MotorcycleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (m *Motorcycle) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
