package repository

import (
	"context"
	"errors"
	"time"

	"innsuite/internal/domain"
	"innsuite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IntentRepository struct {
	db *gorm.DB
}

func NewIntentRepository(db *gorm.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

// CreateWithHold inserts the hold and the intent in one transaction, guarded
// by a row lock on the room so two guests racing for the same dates cannot
// both pass the overlap check. Returns ErrRoomUnavailable on conflict.
func (r *IntentRepository) CreateWithHold(ctx context.Context, intent *models.CheckoutIntent, hold *models.RoomHold) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND active = ?", intent.TenantID, true).
			First(&room, intent.RoomID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return err
		}

		var conflicts int64
		err = tx.Model(&models.Reservation{}).
			Where("room_id = ? AND status IN (?, ?)", intent.RoomID,
				domain.ReservationStatusBooked, domain.ReservationStatusCheckedIn).
			Where("check_in < ? AND ? < check_out", intent.CheckOut, intent.CheckIn).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return domain.ErrRoomUnavailable
		}

		err = tx.Model(&models.RoomHold{}).
			Where("room_id = ? AND status = ? AND expires_at > ?", intent.RoomID,
				domain.HoldStatusActive, hold.CreatedAt).
			Where("check_in < ? AND ? < check_out", intent.CheckOut, intent.CheckIn).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return domain.ErrRoomUnavailable
		}

		if err := tx.Create(hold).Error; err != nil {
			return err
		}
		intent.HoldID = hold.ID
		return tx.Create(intent).Error
	})
}

func (r *IntentRepository) GetByID(ctx context.Context, tenantID uint, intentID string) (*models.CheckoutIntent, error) {
	var intent models.CheckoutIntent
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&intent, "id = ?", intentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *IntentRepository) GetByReference(ctx context.Context, reference string) (*models.CheckoutIntent, error) {
	var intent models.CheckoutIntent
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *IntentRepository) SaveAuthorization(ctx context.Context, intentID, authorizationURL, providerRef string) error {
	return r.db.WithContext(ctx).Model(&models.CheckoutIntent{}).
		Where("id = ?", intentID).
		Updates(map[string]interface{}{
			"authorization_url": authorizationURL,
			"provider_ref":      providerRef,
		}).Error
}

// MarkFailedReleaseHold moves a pending intent to FAILED and frees its hold.
func (r *IntentRepository) MarkFailedReleaseHold(ctx context.Context, intent *models.CheckoutIntent) error {
	return r.markTerminalReleaseHold(ctx, intent, domain.IntentStatusFailed)
}

// MarkExpiredReleaseHold moves a pending intent to EXPIRED and frees its hold.
func (r *IntentRepository) MarkExpiredReleaseHold(ctx context.Context, intent *models.CheckoutIntent) error {
	return r.markTerminalReleaseHold(ctx, intent, domain.IntentStatusExpired)
}

func (r *IntentRepository) markTerminalReleaseHold(ctx context.Context, intent *models.CheckoutIntent, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CheckoutIntent{}).
			Where("id = ? AND status = ?", intent.ID, domain.IntentStatusPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // already terminal; nothing to release
		}
		intent.Status = status
		return tx.Model(&models.RoomHold{}).
			Where("id = ? AND status = ?", intent.HoldID, domain.HoldStatusActive).
			Update("status", domain.HoldStatusReleased).Error
	})
}

// ConfirmPending performs the single-writer pending -> confirmed transition.
// The conditional update is the guard: only the caller whose update hits a
// still-pending row materializes the reservation, mints credentials, and
// converts the hold, all in one transaction. Everyone else gets created=false
// and should re-read the intent for the winner's payload.
func (r *IntentRepository) ConfirmPending(
	ctx context.Context,
	intentID string,
	now time.Time,
	mint func(res *models.Reservation, guest *models.GuestProfile) (guestSession, customerToken string, err error),
) (*models.CheckoutIntent, bool, error) {
	var out *models.CheckoutIntent
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// expires_at is part of the predicate so a verify that straddled the
		// deadline cannot confirm a dead intent the sweep hasn't reaped yet.
		res := tx.Model(&models.CheckoutIntent{}).
			Where("id = ? AND status = ? AND expires_at > ?", intentID, domain.IntentStatusPending, now).
			Updates(map[string]interface{}{
				"status":       domain.IntentStatusConfirmed,
				"confirmed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // lost the race or intent already terminal
		}
		created = true

		var intent models.CheckoutIntent
		if err := tx.First(&intent, "id = ?", intentID).Error; err != nil {
			return err
		}

		var guest models.GuestProfile
		err := tx.Where("tenant_id = ? AND email = ?", intent.TenantID, intent.GuestEmail).
			First(&guest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			guest = models.GuestProfile{
				TenantID: intent.TenantID,
				Email:    intent.GuestEmail,
				Name:     intent.GuestName,
				Phone:    intent.GuestPhone,
			}
			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if err := tx.Model(&guest).Update("stay_count", gorm.Expr("stay_count + 1")).Error; err != nil {
			return err
		}

		reservation := models.Reservation{
			TenantID:         intent.TenantID,
			RoomID:           intent.RoomID,
			CheckoutIntentID: intent.ID,
			GuestProfileID:   guest.ID,
			GuestName:        intent.GuestName,
			GuestEmail:       intent.GuestEmail,
			GuestPhone:       intent.GuestPhone,
			CheckIn:          intent.CheckIn,
			CheckOut:         intent.CheckOut,
			Adults:           intent.Adults,
			Children:         intent.Children,
			AmountPaidCents:  intent.AmountCents,
			Currency:         intent.Currency,
			DepositOnly:      intent.PayDepositOnly,
			SpecialRequests:  intent.SpecialRequests,
			Status:           domain.ReservationStatusBooked,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		guestSession, customerToken, err := mint(&reservation, &guest)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.CheckoutIntent{}).
			Where("id = ?", intentID).
			Updates(map[string]interface{}{
				"reservation_id": reservation.ID,
				"guest_session":  guestSession,
				"customer_token": customerToken,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.RoomHold{}).
			Where("id = ?", intent.HoldID).
			Update("status", domain.HoldStatusConverted).Error; err != nil {
			return err
		}

		intent.ConfirmedAt = &now
		intent.ReservationID = &reservation.ID
		intent.GuestSession = guestSession
		intent.CustomerToken = customerToken
		intent.Status = domain.IntentStatusConfirmed
		out = &intent
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// ExpireDue marks every over-due pending intent EXPIRED and releases its
// hold. Returns the released holds so callers can fan out availability
// events. Driven by the background sweep; safe to run concurrently with
// confirms because both paths gate on status = PENDING.
func (r *IntentRepository) ExpireDue(ctx context.Context, now time.Time) ([]models.RoomHold, error) {
	var released []models.RoomHold
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []models.CheckoutIntent
		if err := tx.Where("status = ? AND expires_at <= ?", domain.IntentStatusPending, now).
			Find(&due).Error; err != nil {
			return err
		}
		for _, intent := range due {
			res := tx.Model(&models.CheckoutIntent{}).
				Where("id = ? AND status = ?", intent.ID, domain.IntentStatusPending).
				Update("status", domain.IntentStatusExpired)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue // confirmed in between; leave the hold alone
			}
			var hold models.RoomHold
			if err := tx.First(&hold, intent.HoldID).Error; err != nil {
				return err
			}
			if hold.Status == domain.HoldStatusActive {
				if err := tx.Model(&hold).Update("status", domain.HoldStatusReleased).Error; err != nil {
					return err
				}
				hold.Status = domain.HoldStatusReleased
				released = append(released, hold)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}
