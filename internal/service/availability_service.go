package service

import (
	"context"
	"time"

	"innsuite/internal/clock"
	"innsuite/internal/domain"
	"innsuite/internal/models"
)

type AvailabilityStore interface {
	ListAvailable(ctx context.Context, tenantID uint, start, end time.Time, categoryID *uint, now time.Time) ([]models.Room, error)
}

// AvailableRoom is a bookable room annotated with its resolved nightly rate.
type AvailableRoom struct {
	Room             models.Room
	NightlyRateCents int64
}

type AvailabilityService struct {
	rooms AvailabilityStore
	clock clock.Clock
}

func NewAvailabilityService(rooms AvailabilityStore, clk clock.Clock) *AvailabilityService {
	return &AvailabilityService{rooms: rooms, clock: clk}
}

// ListAvailable returns rooms free of reservations and active holds for the
// half-open range [start, end), each with an effective nightly rate. Rooms
// with no resolvable rate are excluded: the portal always needs a price.
func (s *AvailabilityService) ListAvailable(ctx context.Context, tenantID uint, start, end time.Time, categoryID *uint) ([]AvailableRoom, error) {
	if !end.After(start) {
		return nil, domain.ErrValidation
	}
	rooms, err := s.rooms.ListAvailable(ctx, tenantID, start, end, categoryID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	out := make([]AvailableRoom, 0, len(rooms))
	for _, room := range rooms {
		rate := EffectiveRate(&room)
		if rate == nil {
			continue
		}
		out = append(out, AvailableRoom{Room: room, NightlyRateCents: *rate})
	}
	return out, nil
}

// EffectiveRate resolves a room's nightly rate: the room-specific override
// wins, else the cheapest active rate plan on the room's category, else nil.
func EffectiveRate(room *models.Room) *int64 {
	if room.OverrideRateCents != nil {
		return room.OverrideRateCents
	}
	if room.Category == nil {
		return nil
	}
	var cheapest *int64
	for i := range room.Category.RatePlans {
		plan := &room.Category.RatePlans[i]
		if !plan.Active {
			continue
		}
		if cheapest == nil || plan.NightlyRateCents < *cheapest {
			cheapest = &plan.NightlyRateCents
		}
	}
	return cheapest
}
