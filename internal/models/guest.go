package models

import (
	"time"

	"gorm.io/gorm"
)

// GuestProfile identifies a returning guest within a tenant by email.
type GuestProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"not null;uniqueIndex:idx_guest_tenant_email" json:"tenant_id"`
	Email     string         `gorm:"size:255;not null;uniqueIndex:idx_guest_tenant_email" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Phone     string         `gorm:"size:32" json:"phone"`
	StayCount int            `gorm:"default:0" json:"stay_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GuestProfile) TableName() string {
	return "guest_profiles"
}
