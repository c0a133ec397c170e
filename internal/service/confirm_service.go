package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"innsuite/internal/clock"
	"innsuite/internal/domain"
	"innsuite/internal/models"
	"innsuite/pkg/gateway"
)

type ConfirmStore interface {
	GetByID(ctx context.Context, tenantID uint, intentID string) (*models.CheckoutIntent, error)
	MarkExpiredReleaseHold(ctx context.Context, intent *models.CheckoutIntent) error
	MarkFailedReleaseHold(ctx context.Context, intent *models.CheckoutIntent) error
	ConfirmPending(ctx context.Context, intentID string, now time.Time,
		mint func(res *models.Reservation, guest *models.GuestProfile) (string, string, error)) (*models.CheckoutIntent, bool, error)
	ExpireDue(ctx context.Context, now time.Time) ([]models.RoomHold, error)
}

type ReservationStore interface {
	GetByIntentID(ctx context.Context, intentID string) (*models.Reservation, error)
}

const (
	ConfirmStatusConfirmed = "confirmed"
	ConfirmStatusPending   = "pending"
)

// ConfirmResult is what pollers receive. For a confirmed intent the payload
// is identical on every call: tokens come from the intent row, not a fresh mint.
type ConfirmResult struct {
	Status        string              `json:"status"`
	Reservation   *models.Reservation `json:"reservation,omitempty"`
	GuestSession  string              `json:"guestSessionToken,omitempty"`
	CustomerToken string              `json:"customerToken,omitempty"`
}

type ConfirmService struct {
	store        ConfirmStore
	reservations ReservationStore
	gateways     *gateway.Registry
	credentials  *CredentialService
	events       AvailabilityEvents
	clock        clock.Clock
}

func NewConfirmService(store ConfirmStore, reservations ReservationStore, gateways *gateway.Registry, credentials *CredentialService, events AvailabilityEvents, clk clock.Clock) *ConfirmService {
	return &ConfirmService{
		store:        store,
		reservations: reservations,
		gateways:     gateways,
		credentials:  credentials,
		events:       events,
		clock:        clk,
	}
}

// Confirm reconciles a gateway outcome into system state, exactly once per
// intent no matter how many times it is called. Both client polls and inbound
// webhooks land here; the conditional update inside ConfirmPending is the
// single guard for the pending -> confirmed transition.
func (s *ConfirmService) Confirm(ctx context.Context, tenantID uint, intentID, reference, gatewayName string) (*ConfirmResult, error) {
	intent, err := s.store.GetByID(ctx, tenantID, intentID)
	if err != nil {
		return nil, err
	}
	if reference != "" && reference != intent.Reference {
		return nil, domain.ErrValidation
	}
	if gatewayName != "" && gatewayName != intent.Gateway {
		return nil, domain.ErrValidation
	}

	switch intent.Status {
	case domain.IntentStatusConfirmed:
		return s.confirmedResult(ctx, intent)
	case domain.IntentStatusExpired:
		return nil, domain.ErrIntentExpired
	case domain.IntentStatusFailed:
		return nil, domain.ErrPaymentFailed
	}

	now := s.clock.Now()
	// Server-side expiry is authoritative: even a gateway that would report
	// success cannot revive an intent past its deadline.
	if intent.ExpiredAt(now) {
		if err := s.store.MarkExpiredReleaseHold(ctx, intent); err != nil {
			return nil, err
		}
		s.releaseEvent(intent)
		return nil, domain.ErrIntentExpired
	}

	gw, ok := s.gateways.Get(intent.Gateway)
	if !ok {
		return nil, domain.ErrUnsupportedGateway
	}
	verifyRef := intent.Reference
	if intent.ProviderRef != "" {
		verifyRef = intent.ProviderRef
	}
	outcome, err := gw.Verify(ctx, verifyRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	switch outcome.Outcome {
	case gateway.OutcomeFailed:
		if err := s.store.MarkFailedReleaseHold(ctx, intent); err != nil {
			return nil, err
		}
		s.releaseEvent(intent)
		return nil, domain.ErrPaymentFailed
	case gateway.OutcomePending:
		return &ConfirmResult{Status: ConfirmStatusPending}, nil
	}

	if outcome.AmountPaidCents > 0 && outcome.AmountPaidCents < intent.AmountCents {
		log.Printf("[CONFIRM] short payment intent=%s expected=%d got=%d", intent.ID, intent.AmountCents, outcome.AmountPaidCents)
	}

	// Re-read the clock: the verify round-trip above may have consumed the
	// rest of the intent's lifetime, and the transition predicate checks
	// expiry against the instant it commits.
	confirmed, created, err := s.store.ConfirmPending(ctx, intent.ID, s.clock.Now(), s.credentials.Minter(intent))
	if err != nil {
		return nil, err
	}
	if !created {
		// A concurrent confirm (or the sweep) beat us to the transition;
		// re-read and answer with whatever the winner produced.
		fresh, err := s.store.GetByID(ctx, tenantID, intentID)
		if err != nil {
			return nil, err
		}
		switch fresh.Status {
		case domain.IntentStatusConfirmed:
			return s.confirmedResult(ctx, fresh)
		case domain.IntentStatusExpired:
			return nil, domain.ErrIntentExpired
		case domain.IntentStatusFailed:
			return nil, domain.ErrPaymentFailed
		}
		return &ConfirmResult{Status: ConfirmStatusPending}, nil
	}

	log.Printf("[CONFIRM] intent=%s ref=%s confirmed, reservation=%d", confirmed.ID, confirmed.Reference, *confirmed.ReservationID)
	return s.confirmedResult(ctx, confirmed)
}

func (s *ConfirmService) confirmedResult(ctx context.Context, intent *models.CheckoutIntent) (*ConfirmResult, error) {
	result := &ConfirmResult{
		Status:        ConfirmStatusConfirmed,
		GuestSession:  intent.GuestSession,
		CustomerToken: intent.CustomerToken,
	}
	res, err := s.reservations.GetByIntentID(ctx, intent.ID)
	if err != nil {
		return nil, err
	}
	result.Reservation = res
	return result, nil
}

func (s *ConfirmService) releaseEvent(intent *models.CheckoutIntent) {
	if s.events != nil {
		s.events.RoomReleased(intent.TenantID, intent.RoomID, intent.CheckIn, intent.CheckOut)
	}
}

// ExpireDue sweeps over-due pending intents so holds free up even for guests
// who never poll again. Wired to a ticker in main.
func (s *ConfirmService) ExpireDue(ctx context.Context) {
	released, err := s.store.ExpireDue(ctx, s.clock.Now())
	if err != nil {
		log.Printf("[SWEEP] expire due intents: %v", err)
		return
	}
	for _, hold := range released {
		if s.events != nil {
			s.events.RoomReleased(hold.TenantID, hold.RoomID, hold.CheckIn, hold.CheckOut)
		}
	}
	if len(released) > 0 {
		log.Printf("[SWEEP] expired %d intent(s), holds released", len(released))
	}
}
