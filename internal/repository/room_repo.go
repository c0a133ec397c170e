package repository

import (
	"context"
	"errors"
	"time"

	"innsuite/internal/domain"
	"innsuite/internal/models"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetForTenant(ctx context.Context, tenantID, roomID uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Category.RatePlans", "active = ?", true).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		First(&room, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListAvailable returns active rooms with no overlapping reservation and no
// active, non-expired hold for the half-open range [start, end). Categories
// and their rate plans are preloaded so the caller can resolve pricing.
func (r *RoomRepository) ListAvailable(ctx context.Context, tenantID uint, start, end time.Time, categoryID *uint, now time.Time) ([]models.Room, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Category.RatePlans", "active = ?", true).
		Where("rooms.tenant_id = ? AND rooms.active = ?", tenantID, true).
		Where(`NOT EXISTS (
			SELECT 1 FROM reservations res
			WHERE res.room_id = rooms.id
			  AND res.deleted_at IS NULL
			  AND res.status IN (?, ?)
			  AND res.check_in < ? AND ? < res.check_out
		)`, domain.ReservationStatusBooked, domain.ReservationStatusCheckedIn, end, start).
		Where(`NOT EXISTS (
			SELECT 1 FROM room_holds h
			WHERE h.room_id = rooms.id
			  AND h.deleted_at IS NULL
			  AND h.status = ?
			  AND h.expires_at > ?
			  AND h.check_in < ? AND ? < h.check_out
		)`, domain.HoldStatusActive, now, end, start)
	if categoryID != nil {
		q = q.Where("rooms.category_id = ?", *categoryID)
	}
	var rooms []models.Room
	if err := q.Order("rooms.number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) ListCategories(ctx context.Context, tenantID uint) ([]models.RoomCategory, error) {
	var cats []models.RoomCategory
	err := r.db.WithContext(ctx).
		Preload("RatePlans", "active = ?", true).
		Where("tenant_id = ?", tenantID).
		Order("name").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}
