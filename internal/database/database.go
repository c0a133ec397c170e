package database

import (
	"log"
	"time"

	"innsuite/config"
	"innsuite/internal/domain"
	"innsuite/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.RoomCategory{},
		&models.RatePlan{},
		&models.Room{},
		&models.RoomHold{},
		&models.CheckoutIntent{},
		&models.Reservation{},
		&models.GuestProfile{},
	)
}

// SeedDemo inserts a demo tenant with a couple of rooms for local development.
func SeedDemo(db *gorm.DB) {
	var count int64
	db.Model(&models.Tenant{}).Count(&count)
	if count > 0 {
		return
	}
	tenant := models.Tenant{
		Slug:              "grandview",
		Name:              "Grandview Hotel & Suites",
		Currency:          "NGN",
		AllowedGateways:   domain.GatewayPaystack + "," + domain.GatewayFlutterwave + "," + domain.GatewayStripe,
		DefaultGateway:    domain.GatewayPaystack,
		DepositPercentBps: 2000,
		BrandColor:        "#1f3a5f",
		TagLine:           "Book direct, pay online",
		Active:            true,
	}
	if err := db.Create(&tenant).Error; err != nil {
		log.Printf("[SEED] tenant: %v", err)
		return
	}
	standard := models.RoomCategory{TenantID: tenant.ID, Name: "Standard", Description: "Queen bed, city view", MaxAdults: 2, MaxChildren: 1}
	deluxe := models.RoomCategory{TenantID: tenant.ID, Name: "Deluxe", Description: "King bed, balcony", MaxAdults: 2, MaxChildren: 2}
	db.Create(&standard)
	db.Create(&deluxe)
	db.Create(&models.RatePlan{TenantID: tenant.ID, CategoryID: standard.ID, Name: "Standard nightly", NightlyRateCents: 3500000, Active: true})
	db.Create(&models.RatePlan{TenantID: tenant.ID, CategoryID: deluxe.ID, Name: "Deluxe nightly", NightlyRateCents: 5000000, Active: true})
	for _, num := range []string{"101", "102", "103"} {
		db.Create(&models.Room{TenantID: tenant.ID, CategoryID: standard.ID, Number: num, Floor: "1", Active: true})
	}
	for _, num := range []string{"201", "202"} {
		db.Create(&models.Room{TenantID: tenant.ID, CategoryID: deluxe.ID, Number: num, Floor: "2", Active: true})
	}
	log.Printf("[SEED] demo tenant %q created (id=%d) at %s", tenant.Slug, tenant.ID, time.Now().Format(time.RFC3339))
}
