package models

import (
	"time"

	"innsuite/internal/domain"

	"gorm.io/gorm"
)

// CheckoutIntent is a provisional, time-bounded request to pay for a stay.
// Exactly one intent per reference may reach CONFIRMED; the transition is
// one-way and guarded by a conditional update in the repository.
type CheckoutIntent struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"` // opaque UUID handed to the client
	TenantID         uint           `gorm:"not null;index" json:"tenant_id"`
	RoomID           uint           `gorm:"not null;index" json:"room_id"`
	HoldID           uint           `gorm:"not null" json:"-"`
	Reference        string         `gorm:"size:64;uniqueIndex" json:"reference"` // gateway-facing correlation id
	CheckIn          time.Time      `gorm:"not null" json:"check_in"`
	CheckOut         time.Time      `gorm:"not null" json:"check_out"`
	Adults           int            `gorm:"default:1" json:"adults"`
	Children         int            `gorm:"default:0" json:"children"`
	GuestName        string         `gorm:"size:255;not null" json:"guest_name"`
	GuestEmail       string         `gorm:"size:255;not null" json:"guest_email"`
	GuestPhone       string         `gorm:"size:32" json:"guest_phone"`
	SpecialRequests  string         `gorm:"type:text" json:"special_requests"`
	Gateway          string         `gorm:"size:32;not null" json:"gateway"`
	AmountCents      int64          `gorm:"not null" json:"amount_cents"`
	Currency         string         `gorm:"size:3;not null" json:"currency"`
	PayDepositOnly   bool           `gorm:"default:false" json:"pay_deposit_only"`
	Status           string         `gorm:"size:16;not null;index" json:"status"` // PENDING, CONFIRMED, EXPIRED, FAILED
	AuthorizationURL string         `gorm:"size:1024" json:"authorization_url"`
	ProviderRef      string         `gorm:"size:255" json:"-"` // processor-side id when distinct from Reference (Stripe session id)
	ExpiresAt        time.Time      `gorm:"not null;index" json:"expires_at"`
	ConfirmedAt      *time.Time     `json:"confirmed_at"`
	ReservationID    *uint          `json:"reservation_id"`
	GuestSession     string         `gorm:"type:text" json:"-"` // cached so repeat confirms return identical tokens
	CustomerToken    string         `gorm:"type:text" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CheckoutIntent) TableName() string {
	return "checkout_intents"
}

// ExpiredAt reports whether the intent's server-side deadline has passed.
// The deadline is authoritative regardless of what the gateway would report.
func (i *CheckoutIntent) ExpiredAt(t time.Time) bool {
	return !i.ExpiresAt.After(t)
}

// Nights returns the stay length in calendar nights.
func (i *CheckoutIntent) Nights() int {
	return domain.Nights(i.CheckIn, i.CheckOut)
}
