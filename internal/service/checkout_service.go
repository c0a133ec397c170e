package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"innsuite/config"
	"innsuite/internal/clock"
	"innsuite/internal/domain"
	"innsuite/internal/models"
	"innsuite/pkg/gateway"

	"github.com/google/uuid"
)

type CheckoutStore interface {
	CreateWithHold(ctx context.Context, intent *models.CheckoutIntent, hold *models.RoomHold) error
	SaveAuthorization(ctx context.Context, intentID, authorizationURL, providerRef string) error
	MarkFailedReleaseHold(ctx context.Context, intent *models.CheckoutIntent) error
}

// RoomStore is the room lookup the checkout flow needs for pricing.
type RoomStore interface {
	GetForTenant(ctx context.Context, tenantID, roomID uint) (*models.Room, error)
}

// AvailabilityEvents fans room hold/release changes out to live viewers.
type AvailabilityEvents interface {
	RoomHeld(tenantID, roomID uint, checkIn, checkOut time.Time)
	RoomReleased(tenantID, roomID uint, checkIn, checkOut time.Time)
}

type CreateIntentInput struct {
	Tenant          *models.Tenant
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
	Gateway         string // empty means tenant default
	PayDepositOnly  bool
}

type IntentSummary struct {
	IntentID         string    `json:"intentId"`
	AuthorizationURL string    `json:"authorizationUrl"`
	Reference        string    `json:"reference"`
	Gateway          string    `json:"gateway"`
	AmountCents      int64     `json:"amount"`
	Currency         string    `json:"currency"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

type CheckoutService struct {
	store    CheckoutStore
	rooms    RoomStore
	gateways *gateway.Registry
	events   AvailabilityEvents
	clock    clock.Clock
	cfg      *config.CheckoutConfig
}

func NewCheckoutService(store CheckoutStore, rooms RoomStore, gateways *gateway.Registry, events AvailabilityEvents, clk clock.Clock, cfg *config.CheckoutConfig) *CheckoutService {
	return &CheckoutService{store: store, rooms: rooms, gateways: gateways, events: events, clock: clk, cfg: cfg}
}

// CreateIntent holds the room, prices the stay, and opens a payment with the
// selected gateway. The hold and intent are written atomically before any
// gateway I/O; a failed initialize rolls both back so no inventory is left
// locked behind a payment that never opened.
func (s *CheckoutService) CreateIntent(ctx context.Context, in CreateIntentInput) (*IntentSummary, error) {
	if err := validateIntentInput(&in); err != nil {
		return nil, err
	}
	tenant := in.Tenant
	now := s.clock.Now()

	room, err := s.rooms.GetForTenant(ctx, tenant.ID, in.RoomID)
	if err != nil {
		return nil, err
	}

	rate := EffectiveRate(room)
	if rate == nil {
		return nil, domain.ErrNoRateResolvable
	}
	nights := domain.Nights(in.CheckIn, in.CheckOut)
	if nights < 1 {
		return nil, domain.ErrValidation
	}
	total := *rate * int64(nights)
	amount := total
	if in.PayDepositOnly {
		amount = tenant.DepositCents(total)
	}

	gatewayName := in.Gateway
	if gatewayName == "" {
		gatewayName = tenant.DefaultGateway
	}
	if !tenant.GatewayAllowed(gatewayName) {
		return nil, domain.ErrUnsupportedGateway
	}
	gw, ok := s.gateways.Get(gatewayName)
	if !ok {
		return nil, domain.ErrUnsupportedGateway
	}

	reference := fmt.Sprintf("%s-%s", tenant.Slug, uuid.New().String())
	expiresAt := now.Add(s.cfg.IntentTTL)

	hold := &models.RoomHold{
		TenantID:  tenant.ID,
		RoomID:    room.ID,
		Reference: reference,
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
		Status:    domain.HoldStatusActive,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	intent := &models.CheckoutIntent{
		ID:              uuid.New().String(),
		TenantID:        tenant.ID,
		RoomID:          room.ID,
		Reference:       reference,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Adults:          in.Adults,
		Children:        in.Children,
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		SpecialRequests: in.SpecialRequests,
		Gateway:         gatewayName,
		AmountCents:     amount,
		Currency:        tenant.Currency,
		PayDepositOnly:  in.PayDepositOnly,
		Status:          domain.IntentStatusPending,
		ExpiresAt:       expiresAt,
	}

	if err := s.store.CreateWithHold(ctx, intent, hold); err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.RoomHeld(tenant.ID, room.ID, in.CheckIn, in.CheckOut)
	}
	log.Printf("[CHECKOUT] intent=%s ref=%s room=%d nights=%d amount=%d %s gateway=%s",
		intent.ID, reference, room.ID, nights, amount, intent.Currency, gatewayName)

	// Gateway I/O happens outside the hold transaction; a slow processor must
	// not keep database locks open.
	initResp, err := gw.Initialize(ctx, gateway.InitRequest{
		AmountCents: amount,
		Currency:    tenant.Currency,
		Reference:   reference,
		Email:       in.GuestEmail,
		Name:        in.GuestName,
		CallbackURL: s.callbackURL(tenant.Slug, intent.ID),
		Description: fmt.Sprintf("%s: room %s, %d night(s)", tenant.Name, room.Number, nights),
	})
	if err != nil {
		log.Printf("[CHECKOUT] initialize failed intent=%s: %v", intent.ID, err)
		if relErr := s.store.MarkFailedReleaseHold(ctx, intent); relErr != nil {
			log.Printf("[CHECKOUT] release after init failure intent=%s: %v", intent.ID, relErr)
		}
		if s.events != nil {
			s.events.RoomReleased(tenant.ID, room.ID, in.CheckIn, in.CheckOut)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	if err := s.store.SaveAuthorization(ctx, intent.ID, initResp.AuthorizationURL, initResp.ProviderRef); err != nil {
		return nil, err
	}

	return &IntentSummary{
		IntentID:         intent.ID,
		AuthorizationURL: initResp.AuthorizationURL,
		Reference:        reference,
		Gateway:          gatewayName,
		AmountCents:      amount,
		Currency:         tenant.Currency,
		ExpiresAt:        expiresAt,
	}, nil
}

func (s *CheckoutService) callbackURL(tenantSlug, intentID string) string {
	return fmt.Sprintf("%s/%s/checkout/return?intent=%s", strings.TrimRight(s.cfg.CallbackBase, "/"), tenantSlug, intentID)
}

func validateIntentInput(in *CreateIntentInput) error {
	if in.Tenant == nil || in.RoomID == 0 {
		return domain.ErrValidation
	}
	if !in.CheckOut.After(in.CheckIn) {
		return domain.ErrValidation
	}
	if in.Adults < 1 {
		return domain.ErrValidation
	}
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	if in.GuestName == "" || in.GuestEmail == "" {
		return domain.ErrValidation
	}
	at := strings.IndexByte(in.GuestEmail, '@')
	if at <= 0 || at == len(in.GuestEmail)-1 || !strings.Contains(in.GuestEmail[at:], ".") {
		return domain.ErrValidation
	}
	return nil
}
