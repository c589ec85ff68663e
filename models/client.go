package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_user_phone,priority:1"`

	Name      string `gorm:"not null"`
	Phone     string `gorm:"not null;uniqueIndex:idx_user_phone,priority:2"`
	Email     string
	Notes     string
	LastVisit *time.Time
	IsActive  bool `gorm:"default:true"`

	Motorcycles []Motorcycle `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Services    []Service    `gorm:"foreignKey:ClientID"`

	gorm.Model
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
