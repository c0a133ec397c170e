package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Tenant struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Slug             string         `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Currency         string         `gorm:"size:3;not null;default:'NGN'" json:"currency"`
	AllowedGateways  string         `gorm:"size:255;not null;default:''" json:"-"` // CSV, e.g. "paystack,stripe"
	DefaultGateway   string         `gorm:"size:32;not null;default:''" json:"default_gateway"`
	DepositPercentBps int           `gorm:"default:0" json:"deposit_percent_bps"` // 2000 = 20%
	DepositFlatCents int64          `gorm:"default:0" json:"deposit_flat_cents"`  // wins over percent when set
	BrandColor       string         `gorm:"size:16" json:"brand_color"`
	LogoURL          string         `gorm:"size:512" json:"logo_url"`
	TagLine          string         `gorm:"size:255" json:"tag_line"`
	Active           bool           `gorm:"default:true;index" json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// GatewayList returns the tenant's allowed gateway names.
func (t *Tenant) GatewayList() []string {
	if t.AllowedGateways == "" {
		return nil
	}
	parts := strings.Split(t.AllowedGateways, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (t *Tenant) GatewayAllowed(name string) bool {
	for _, g := range t.GatewayList() {
		if g == name {
			return true
		}
	}
	return false
}

// DepositCents resolves the deposit due for a total, per the tenant's policy.
// A flat amount wins over a percentage; no policy means the full total is due.
func (t *Tenant) DepositCents(totalCents int64) int64 {
	if t.DepositFlatCents > 0 {
		if t.DepositFlatCents < totalCents {
			return t.DepositFlatCents
		}
		return totalCents
	}
	if t.DepositPercentBps > 0 {
		return totalCents * int64(t.DepositPercentBps) / 10000
	}
	return totalCents
}
