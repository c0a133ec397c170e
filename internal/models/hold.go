package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomHold is a short-lived lock on a room for a stay range, created together
// with a CheckoutIntent and released on expiry, failure, or conversion into a
// Reservation. Active holds hide the room from availability queries.
type RoomHold struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`
	RoomID    uint           `gorm:"not null;index:idx_holds_room_dates" json:"room_id"`
	Reference string         `gorm:"size:64;uniqueIndex" json:"reference"`
	CheckIn   time.Time      `gorm:"not null;index:idx_holds_room_dates" json:"check_in"`
	CheckOut  time.Time      `gorm:"not null" json:"check_out"`
	Status    string         `gorm:"size:16;not null;index" json:"status"` // ACTIVE, RELEASED, CONVERTED
	ExpiresAt time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RoomHold) TableName() string {
	return "room_holds"
}

// ActiveAt reports whether the hold still blocks the room at t.
func (h *RoomHold) ActiveAt(t time.Time) bool {
	return h.Status == "ACTIVE" && h.ExpiresAt.After(t)
}
