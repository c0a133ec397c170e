package models

import (
	"time"

	"gorm.io/gorm"
)

type RoomCategory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TenantID    uint           `gorm:"not null;index" json:"tenant_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	MaxAdults   int            `gorm:"default:2" json:"max_adults"`
	MaxChildren int            `gorm:"default:2" json:"max_children"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	RatePlans []RatePlan `gorm:"foreignKey:CategoryID" json:"rate_plans,omitempty"`
}

func (RoomCategory) TableName() string {
	return "room_categories"
}

type RatePlan struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	TenantID         uint           `gorm:"not null;index" json:"tenant_id"`
	CategoryID       uint           `gorm:"not null;index" json:"category_id"`
	Name             string         `gorm:"size:128;not null" json:"name"`
	NightlyRateCents int64          `gorm:"not null" json:"nightly_rate_cents"`
	Active           bool           `gorm:"default:true;index" json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RatePlan) TableName() string {
	return "rate_plans"
}

type Room struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	TenantID          uint           `gorm:"not null;index" json:"tenant_id"`
	CategoryID        uint           `gorm:"not null;index" json:"category_id"`
	Number            string         `gorm:"size:32;not null" json:"number"`
	Floor             string         `gorm:"size:32" json:"floor"`
	OverrideRateCents *int64         `json:"override_rate_cents"` // nil: price from the category's cheapest active plan
	Active            bool           `gorm:"default:true;index" json:"active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Category *RoomCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}
