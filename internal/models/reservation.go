package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation is created exclusively by the confirmation flow, exactly once
// per confirmed CheckoutIntent (unique index on checkout_intent_id).
type Reservation struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	TenantID         uint           `gorm:"not null;index" json:"tenant_id"`
	RoomID           uint           `gorm:"not null;index" json:"room_id"`
	CheckoutIntentID string         `gorm:"size:36;uniqueIndex;not null" json:"-"`
	GuestProfileID   uint           `gorm:"index" json:"guest_profile_id"`
	GuestName        string         `gorm:"size:255;not null" json:"guest_name"`
	GuestEmail       string         `gorm:"size:255;not null" json:"guest_email"`
	GuestPhone       string         `gorm:"size:32" json:"guest_phone"`
	CheckIn          time.Time      `gorm:"not null;index" json:"check_in"`
	CheckOut         time.Time      `gorm:"not null" json:"check_out"`
	Adults           int            `gorm:"default:1" json:"adults"`
	Children         int            `gorm:"default:0" json:"children"`
	AmountPaidCents  int64          `gorm:"not null" json:"amount_paid_cents"`
	Currency         string         `gorm:"size:3;not null" json:"currency"`
	DepositOnly      bool           `gorm:"default:false" json:"deposit_only"`
	SpecialRequests  string         `gorm:"type:text" json:"special_requests"`
	Status           string         `gorm:"size:16;not null;index" json:"status"` // BOOKED, CHECKED_IN, CHECKED_OUT, CANCELLED
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}
