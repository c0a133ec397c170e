package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"innsuite/config"
	"innsuite/internal/clock"
	"innsuite/internal/domain"
	"innsuite/internal/models"
	"innsuite/pkg/gateway"
)

// fakeConfirmStore behaves like the real repository: ConfirmPending only wins
// when the stored intent is still pending, and terminal marks flip both the
// intent and its hold.
type fakeConfirmStore struct {
	intent       *models.CheckoutIntent
	hold         *models.RoomHold
	reservation  *models.Reservation
	nextResID    uint
	loseRace     func() // runs before ConfirmPending checks status
	expireDueOut []models.RoomHold
}

func (f *fakeConfirmStore) GetByID(_ context.Context, tenantID uint, intentID string) (*models.CheckoutIntent, error) {
	if f.intent == nil || f.intent.ID != intentID || f.intent.TenantID != tenantID {
		return nil, domain.ErrIntentNotFound
	}
	out := *f.intent
	return &out, nil
}

func (f *fakeConfirmStore) MarkExpiredReleaseHold(_ context.Context, intent *models.CheckoutIntent) error {
	if f.intent.Status == domain.IntentStatusPending {
		f.intent.Status = domain.IntentStatusExpired
		f.hold.Status = domain.HoldStatusReleased
	}
	return nil
}

func (f *fakeConfirmStore) MarkFailedReleaseHold(_ context.Context, intent *models.CheckoutIntent) error {
	if f.intent.Status == domain.IntentStatusPending {
		f.intent.Status = domain.IntentStatusFailed
		f.hold.Status = domain.HoldStatusReleased
	}
	return nil
}

func (f *fakeConfirmStore) ConfirmPending(_ context.Context, intentID string, now time.Time,
	mint func(res *models.Reservation, guest *models.GuestProfile) (string, string, error)) (*models.CheckoutIntent, bool, error) {
	if f.loseRace != nil {
		f.loseRace()
	}
	if f.intent.Status != domain.IntentStatusPending || !f.intent.ExpiresAt.After(now) {
		return nil, false, nil
	}
	f.nextResID++
	res := &models.Reservation{
		ID:               f.nextResID,
		TenantID:         f.intent.TenantID,
		RoomID:           f.intent.RoomID,
		CheckoutIntentID: f.intent.ID,
		Status:           domain.ReservationStatusBooked,
	}
	guest := &models.GuestProfile{ID: 42, TenantID: f.intent.TenantID, Email: f.intent.GuestEmail}
	session, customer, err := mint(res, guest)
	if err != nil {
		return nil, false, err
	}
	f.reservation = res
	f.intent.Status = domain.IntentStatusConfirmed
	f.intent.ConfirmedAt = &now
	f.intent.ReservationID = &res.ID
	f.intent.GuestSession = session
	f.intent.CustomerToken = customer
	f.hold.Status = domain.HoldStatusConverted
	out := *f.intent
	return &out, true, nil
}

func (f *fakeConfirmStore) ExpireDue(_ context.Context, now time.Time) ([]models.RoomHold, error) {
	return f.expireDueOut, nil
}

func (f *fakeConfirmStore) GetByIntentID(_ context.Context, intentID string) (*models.Reservation, error) {
	if f.reservation == nil || f.reservation.CheckoutIntentID != intentID {
		return nil, nil
	}
	out := *f.reservation
	return &out, nil
}

func testTokenConfig() *config.TokenConfig {
	return &config.TokenConfig{
		GuestSecret:    "guest-secret",
		CustomerSecret: "customer-secret",
		GuestExpiry:    24 * time.Hour,
		CustomerExpiry: 90 * 24 * time.Hour,
		Issuer:         "innsuite",
	}
}

func pendingFixture(clk clock.Clock) (*fakeConfirmStore, *models.CheckoutIntent) {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	intent := &models.CheckoutIntent{
		ID:          "11111111-2222-3333-4444-555555555555",
		TenantID:    1,
		RoomID:      7,
		Reference:   "grandview-abc",
		CheckIn:     checkIn,
		CheckOut:    checkIn.AddDate(0, 0, 2),
		GuestName:   "Ada Obi",
		GuestEmail:  "ada@example.com",
		Gateway:     "paystack",
		AmountCents: 100000,
		Currency:    "NGN",
		Status:      domain.IntentStatusPending,
		ExpiresAt:   clk.Now().Add(30 * time.Minute),
	}
	hold := &models.RoomHold{TenantID: 1, RoomID: 7, Reference: intent.Reference, Status: domain.HoldStatusActive}
	return &fakeConfirmStore{intent: intent, hold: hold}, intent
}

func newConfirmService(store *fakeConfirmStore, gw *fakeGateway, clk clock.Clock, events AvailabilityEvents) *ConfirmService {
	credentials := NewCredentialService(testTokenConfig(), clk)
	return NewConfirmService(store, store, gateway.NewRegistry(gw), credentials, events, clk)
}

func TestConfirmSucceededIsIdempotent(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomeSucceeded, AmountPaidCents: 100000}}
	svc := newConfirmService(store, gw, clk, nil)

	first, err := svc.Confirm(context.Background(), 1, intent.ID, intent.Reference, "paystack")
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if first.Status != ConfirmStatusConfirmed {
		t.Fatalf("status = %q, want confirmed", first.Status)
	}
	if first.Reservation == nil || first.Reservation.Status != domain.ReservationStatusBooked {
		t.Fatal("reservation not materialized as BOOKED")
	}
	if first.GuestSession == "" || first.CustomerToken == "" {
		t.Fatal("tokens missing from confirm result")
	}
	if store.hold.Status != domain.HoldStatusConverted {
		t.Errorf("hold status = %q, want CONVERTED", store.hold.Status)
	}

	clk.Advance(5 * time.Minute)
	second, err := svc.Confirm(context.Background(), 1, intent.ID, intent.Reference, "paystack")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if second.GuestSession != first.GuestSession || second.CustomerToken != first.CustomerToken {
		t.Error("repeat confirm re-minted tokens; payload must be byte-identical")
	}
	if second.Reservation == nil || second.Reservation.ID != first.Reservation.ID {
		t.Error("repeat confirm returned a different reservation")
	}
	if len(gw.verifyCalls) != 1 {
		t.Errorf("verify calls = %d, want 1 (confirmed intents skip the gateway)", len(gw.verifyCalls))
	}
}

func TestConfirmExpiryBeatsGatewaySuccess(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomeSucceeded}}
	events := &eventLog{}
	svc := newConfirmService(store, gw, clk, events)

	clk.Advance(31 * time.Minute)
	_, err := svc.Confirm(context.Background(), 1, intent.ID, "", "")
	if !errors.Is(err, domain.ErrIntentExpired) {
		t.Fatalf("err = %v, want ErrIntentExpired", err)
	}
	if len(gw.verifyCalls) != 0 {
		t.Error("expired intent must not reach the gateway")
	}
	if store.intent.Status != domain.IntentStatusExpired {
		t.Errorf("intent status = %q, want EXPIRED", store.intent.Status)
	}
	if store.hold.Status != domain.HoldStatusReleased {
		t.Errorf("hold status = %q, want RELEASED", store.hold.Status)
	}
	if events.released != 1 {
		t.Errorf("released events = %d, want 1", events.released)
	}
}

func TestConfirmPendingLeavesStateUntouched(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomePending}}
	svc := newConfirmService(store, gw, clk, nil)

	result, err := svc.Confirm(context.Background(), 1, intent.ID, "", "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.Status != ConfirmStatusPending {
		t.Errorf("status = %q, want pending", result.Status)
	}
	if store.intent.Status != domain.IntentStatusPending {
		t.Errorf("intent status = %q, must stay PENDING", store.intent.Status)
	}
	if store.hold.Status != domain.HoldStatusActive {
		t.Errorf("hold status = %q, must stay ACTIVE", store.hold.Status)
	}
}

func TestConfirmFailedReleasesHold(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomeFailed}}
	events := &eventLog{}
	svc := newConfirmService(store, gw, clk, events)

	_, err := svc.Confirm(context.Background(), 1, intent.ID, "", "")
	if !errors.Is(err, domain.ErrPaymentFailed) {
		t.Fatalf("err = %v, want ErrPaymentFailed", err)
	}
	if store.intent.Status != domain.IntentStatusFailed {
		t.Errorf("intent status = %q, want FAILED", store.intent.Status)
	}
	if events.released != 1 {
		t.Errorf("released events = %d, want 1", events.released)
	}

	// Failed is terminal: a later gateway success cannot revive it.
	gw.verify = gateway.VerifyResult{Outcome: gateway.OutcomeSucceeded}
	if _, err := svc.Confirm(context.Background(), 1, intent.ID, "", ""); !errors.Is(err, domain.ErrPaymentFailed) {
		t.Errorf("err = %v, want ErrPaymentFailed after terminal failure", err)
	}
}

func TestConfirmReferenceMismatch(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	svc := newConfirmService(store, &fakeGateway{name: "paystack"}, clk, nil)

	if _, err := svc.Confirm(context.Background(), 1, intent.ID, "someone-elses-ref", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("reference mismatch err = %v, want ErrValidation", err)
	}
	if _, err := svc.Confirm(context.Background(), 1, intent.ID, "", "stripe"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("gateway mismatch err = %v, want ErrValidation", err)
	}
	if _, err := svc.Confirm(context.Background(), 2, intent.ID, "", ""); !errors.Is(err, domain.ErrIntentNotFound) {
		t.Errorf("wrong tenant err = %v, want ErrIntentNotFound", err)
	}
}

func TestConfirmLostRaceReturnsWinnerResult(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomeSucceeded}}
	svc := newConfirmService(store, gw, clk, nil)

	// A concurrent caller (or webhook) confirms between our verify and our
	// conditional update.
	credentials := NewCredentialService(testTokenConfig(), clk)
	store.loseRace = func() {
		store.loseRace = nil
		if _, created, err := store.ConfirmPending(context.Background(), intent.ID, clk.Now(), credentials.Minter(intent)); err != nil || !created {
			t.Fatalf("racing confirm: created=%v err=%v", created, err)
		}
	}

	result, err := svc.Confirm(context.Background(), 1, intent.ID, "", "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.Status != ConfirmStatusConfirmed {
		t.Fatalf("status = %q, want confirmed", result.Status)
	}
	if result.GuestSession != store.intent.GuestSession {
		t.Error("loser must answer with the winner's cached tokens")
	}
}

func TestConfirmUsesProviderRefWhenSet(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	store.intent.ProviderRef = "cs_test_123"
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomePending}}
	svc := newConfirmService(store, gw, clk, nil)

	if _, err := svc.Confirm(context.Background(), 1, intent.ID, "", ""); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(gw.verifyCalls) != 1 || gw.verifyCalls[0] != "cs_test_123" {
		t.Errorf("verify calls = %v, want [cs_test_123]", gw.verifyCalls)
	}
}

func TestExpireDueFiresReleaseEvents(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, _ := pendingFixture(clk)
	store.expireDueOut = []models.RoomHold{
		{TenantID: 1, RoomID: 7},
		{TenantID: 2, RoomID: 9},
	}
	events := &eventLog{}
	svc := newConfirmService(store, &fakeGateway{name: "paystack"}, clk, events)

	svc.ExpireDue(context.Background())
	if events.released != 2 {
		t.Errorf("released events = %d, want 2", events.released)
	}
}

func TestConfirmExpiryDuringSlowVerify(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store, intent := pendingFixture(clk)
	gw := &fakeGateway{name: "paystack", verify: gateway.VerifyResult{Outcome: gateway.OutcomeSucceeded}}
	// The deadline passes while the gateway round-trip is in flight.
	gw.onVerify = func() { clk.Advance(31 * time.Minute) }
	svc := newConfirmService(store, gw, clk, nil)

	result, err := svc.Confirm(context.Background(), 1, intent.ID, "", "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.Status != ConfirmStatusPending {
		t.Errorf("status = %q, want pending (transition must refuse the dead intent)", result.Status)
	}
	if store.intent.Status != domain.IntentStatusPending {
		t.Errorf("intent status = %q, want PENDING until the sweep reaps it", store.intent.Status)
	}
	if store.intent.ReservationID != nil {
		t.Error("no reservation may be materialized past the deadline")
	}
}
