package repository

import (
	"context"
	"errors"

	"innsuite/internal/models"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) GetForTenant(ctx context.Context, tenantID, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("tenant_id = ?", tenantID).
		First(&res, id).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByIntentID returns nil without error when no reservation has been
// materialized for the intent yet.
func (r *ReservationRepository) GetByIntentID(ctx context.Context, intentID string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).Where("checkout_intent_id = ?", intentID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}
