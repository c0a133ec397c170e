package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"innsuite/config"
	"innsuite/internal/clock"
	"innsuite/internal/domain"
	"innsuite/internal/models"
	"innsuite/pkg/gateway"
)

type fakeGateway struct {
	name        string
	initErr     error
	initResp    gateway.InitResponse
	verify      gateway.VerifyResult
	verifyErr   error
	onVerify    func()
	initCalls   []gateway.InitRequest
	verifyCalls []string
}

func (f *fakeGateway) Name() string { return f.name }

func (f *fakeGateway) Initialize(_ context.Context, req gateway.InitRequest) (*gateway.InitResponse, error) {
	f.initCalls = append(f.initCalls, req)
	if f.initErr != nil {
		return nil, f.initErr
	}
	resp := f.initResp
	if resp.AuthorizationURL == "" {
		resp.AuthorizationURL = "https://pay.example.com/" + req.Reference
	}
	return &resp, nil
}

func (f *fakeGateway) Verify(_ context.Context, reference string) (*gateway.VerifyResult, error) {
	f.verifyCalls = append(f.verifyCalls, reference)
	if f.onVerify != nil {
		f.onVerify()
	}
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	out := f.verify
	return &out, nil
}

type fakeCheckoutStore struct {
	room          *models.Room
	roomErr       error
	createErr     error
	createdIntent *models.CheckoutIntent
	createdHold   *models.RoomHold
	savedAuthURL  string
	savedProvider string
	failedMarked  bool
}

func (f *fakeCheckoutStore) GetForTenant(_ context.Context, tenantID, roomID uint) (*models.Room, error) {
	if f.roomErr != nil {
		return nil, f.roomErr
	}
	return f.room, nil
}

func (f *fakeCheckoutStore) CreateWithHold(_ context.Context, intent *models.CheckoutIntent, hold *models.RoomHold) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdIntent = intent
	f.createdHold = hold
	return nil
}

func (f *fakeCheckoutStore) SaveAuthorization(_ context.Context, intentID, authorizationURL, providerRef string) error {
	f.savedAuthURL = authorizationURL
	f.savedProvider = providerRef
	return nil
}

func (f *fakeCheckoutStore) MarkFailedReleaseHold(_ context.Context, intent *models.CheckoutIntent) error {
	f.failedMarked = true
	return nil
}

type eventLog struct {
	held     int
	released int
}

func (e *eventLog) RoomHeld(tenantID, roomID uint, checkIn, checkOut time.Time)     { e.held++ }
func (e *eventLog) RoomReleased(tenantID, roomID uint, checkIn, checkOut time.Time) { e.released++ }

func testTenant() *models.Tenant {
	return &models.Tenant{
		ID:                1,
		Slug:              "grandview",
		Name:              "Grandview Hotel",
		Currency:          "NGN",
		AllowedGateways:   "paystack,stripe",
		DefaultGateway:    "paystack",
		DepositPercentBps: 2000,
	}
}

func testRoom(rate int64) *models.Room {
	return &models.Room{
		ID:                7,
		TenantID:          1,
		Number:            "204",
		OverrideRateCents: &rate,
		Active:            true,
	}
}

func testCheckoutConfig() *config.CheckoutConfig {
	return &config.CheckoutConfig{
		IntentTTL:    30 * time.Minute,
		CallbackBase: "https://book.example.com",
	}
}

func newCheckoutService(store *fakeCheckoutStore, gw *fakeGateway, clk clock.Clock, events AvailabilityEvents) *CheckoutService {
	return NewCheckoutService(store, store, gateway.NewRegistry(gw), events, clk, testCheckoutConfig())
}

func validInput(tenant *models.Tenant) CreateIntentInput {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return CreateIntentInput{
		Tenant:     tenant,
		RoomID:     7,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 2),
		Adults:     2,
		GuestName:  "Ada Obi",
		GuestEmail: "ada@example.com",
	}
}

func TestCreateIntentPricesFullStay(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store := &fakeCheckoutStore{room: testRoom(50000)}
	gw := &fakeGateway{name: "paystack"}
	events := &eventLog{}
	svc := newCheckoutService(store, gw, clk, events)

	summary, err := svc.CreateIntent(context.Background(), validInput(testTenant()))
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if summary.AmountCents != 100000 {
		t.Errorf("amount = %d, want 100000 (2 nights x 50000)", summary.AmountCents)
	}
	if summary.Gateway != "paystack" {
		t.Errorf("gateway = %q, want paystack (tenant default)", summary.Gateway)
	}
	if !strings.HasPrefix(summary.Reference, "grandview-") {
		t.Errorf("reference = %q, want grandview- prefix", summary.Reference)
	}
	if want := clk.Now().Add(30 * time.Minute); !summary.ExpiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", summary.ExpiresAt, want)
	}
	if store.createdHold == nil || store.createdHold.Reference != summary.Reference {
		t.Error("hold not created with intent reference")
	}
	if store.createdIntent.Status != domain.IntentStatusPending {
		t.Errorf("intent status = %q, want PENDING", store.createdIntent.Status)
	}
	if events.held != 1 {
		t.Errorf("held events = %d, want 1", events.held)
	}
	if len(gw.initCalls) != 1 || gw.initCalls[0].AmountCents != 100000 {
		t.Fatalf("gateway initialize calls = %+v", gw.initCalls)
	}
	if store.savedAuthURL == "" {
		t.Error("authorization URL not persisted")
	}
}

func TestCreateIntentDepositOnly(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store := &fakeCheckoutStore{room: testRoom(50000)}
	gw := &fakeGateway{name: "paystack"}
	svc := newCheckoutService(store, gw, clk, nil)

	in := validInput(testTenant())
	in.PayDepositOnly = true
	summary, err := svc.CreateIntent(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if summary.AmountCents != 20000 {
		t.Errorf("deposit amount = %d, want 20000 (20%% of 100000)", summary.AmountCents)
	}
}

func TestCreateIntentGatewaySelection(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	t.Run("explicit gateway not allowed by tenant", func(t *testing.T) {
		store := &fakeCheckoutStore{room: testRoom(50000)}
		svc := newCheckoutService(store, &fakeGateway{name: "paystack"}, clk, nil)
		in := validInput(testTenant())
		in.Gateway = "flutterwave"
		if _, err := svc.CreateIntent(context.Background(), in); !errors.Is(err, domain.ErrUnsupportedGateway) {
			t.Errorf("err = %v, want ErrUnsupportedGateway", err)
		}
	})

	t.Run("allowed but not configured", func(t *testing.T) {
		store := &fakeCheckoutStore{room: testRoom(50000)}
		svc := newCheckoutService(store, &fakeGateway{name: "paystack"}, clk, nil)
		in := validInput(testTenant())
		in.Gateway = "stripe" // allowed by tenant, absent from registry
		if _, err := svc.CreateIntent(context.Background(), in); !errors.Is(err, domain.ErrUnsupportedGateway) {
			t.Errorf("err = %v, want ErrUnsupportedGateway", err)
		}
	})
}

func TestCreateIntentInitializeFailureReleasesHold(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store := &fakeCheckoutStore{room: testRoom(50000)}
	gw := &fakeGateway{name: "paystack", initErr: fmt.Errorf("connection refused")}
	events := &eventLog{}
	svc := newCheckoutService(store, gw, clk, events)

	_, err := svc.CreateIntent(context.Background(), validInput(testTenant()))
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("err = %v, want ErrGateway", err)
	}
	if !store.failedMarked {
		t.Error("hold not released after initialize failure")
	}
	if events.released != 1 {
		t.Errorf("released events = %d, want 1", events.released)
	}
}

func TestCreateIntentRoomUnavailable(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store := &fakeCheckoutStore{room: testRoom(50000), createErr: domain.ErrRoomUnavailable}
	gw := &fakeGateway{name: "paystack"}
	svc := newCheckoutService(store, gw, clk, nil)

	_, err := svc.CreateIntent(context.Background(), validInput(testTenant()))
	if !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("err = %v, want ErrRoomUnavailable", err)
	}
	if len(gw.initCalls) != 0 {
		t.Error("gateway must not be called when the hold fails")
	}
}

func TestCreateIntentNoRate(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	room := testRoom(0)
	room.OverrideRateCents = nil // no override, no category plans
	store := &fakeCheckoutStore{room: room}
	svc := newCheckoutService(store, &fakeGateway{name: "paystack"}, clk, nil)

	if _, err := svc.CreateIntent(context.Background(), validInput(testTenant())); !errors.Is(err, domain.ErrNoRateResolvable) {
		t.Errorf("err = %v, want ErrNoRateResolvable", err)
	}
}

func TestCreateIntentValidation(t *testing.T) {
	base := validInput(testTenant())
	tests := []struct {
		name   string
		mutate func(*CreateIntentInput)
	}{
		{"checkout before checkin", func(in *CreateIntentInput) { in.CheckOut = in.CheckIn.AddDate(0, 0, -1) }},
		{"same day stay", func(in *CreateIntentInput) { in.CheckOut = in.CheckIn }},
		{"zero adults", func(in *CreateIntentInput) { in.Adults = 0 }},
		{"blank name", func(in *CreateIntentInput) { in.GuestName = "   " }},
		{"bad email", func(in *CreateIntentInput) { in.GuestEmail = "not-an-email" }},
		{"email missing domain dot", func(in *CreateIntentInput) { in.GuestEmail = "a@b" }},
	}
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCheckoutStore{room: testRoom(50000)}
			svc := newCheckoutService(store, &fakeGateway{name: "paystack"}, clk, nil)
			in := base
			tt.mutate(&in)
			if _, err := svc.CreateIntent(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

// overlapStore keeps created holds and rejects overlapping ones, mirroring the
// repository's conflict check, so two guests racing for the same dates can be
// exercised end to end at the service layer.
type overlapStore struct {
	fakeCheckoutStore
	holds []*models.RoomHold
}

func (s *overlapStore) CreateWithHold(ctx context.Context, intent *models.CheckoutIntent, hold *models.RoomHold) error {
	for _, h := range s.holds {
		if h.RoomID == hold.RoomID && h.Status == domain.HoldStatusActive &&
			domain.Overlaps(h.CheckIn, h.CheckOut, hold.CheckIn, hold.CheckOut) {
			return domain.ErrRoomUnavailable
		}
	}
	if err := s.fakeCheckoutStore.CreateWithHold(ctx, intent, hold); err != nil {
		return err
	}
	s.holds = append(s.holds, hold)
	return nil
}

func TestCreateIntentNoDoubleSell(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store := &overlapStore{fakeCheckoutStore: fakeCheckoutStore{room: testRoom(50000)}}
	gw := &fakeGateway{name: "paystack"}
	svc := NewCheckoutService(store, store, gateway.NewRegistry(gw), nil, clk, testCheckoutConfig())

	if _, err := svc.CreateIntent(context.Background(), validInput(testTenant())); err != nil {
		t.Fatalf("first guest: %v", err)
	}
	if _, err := svc.CreateIntent(context.Background(), validInput(testTenant())); !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("second guest err = %v, want ErrRoomUnavailable", err)
	}

	// Back-to-back stays share the turnover day and both fit.
	in := validInput(testTenant())
	in.CheckIn = in.CheckOut
	in.CheckOut = in.CheckIn.AddDate(0, 0, 2)
	if _, err := svc.CreateIntent(context.Background(), in); err != nil {
		t.Errorf("back-to-back stay: %v", err)
	}
}

func TestCreateIntentPricesCalendarNights(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	store := &fakeCheckoutStore{room: testRoom(50000)}
	gw := &fakeGateway{name: "paystack"}
	svc := newCheckoutService(store, gw, clk, nil)

	// 15:00 check-in, 11:00 check-out two dates later: two nights, not one.
	in := validInput(testTenant())
	in.CheckIn = time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	in.CheckOut = time.Date(2026, 9, 12, 11, 0, 0, 0, time.UTC)
	summary, err := svc.CreateIntent(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if summary.AmountCents != 100000 {
		t.Errorf("amount = %d, want 100000 (2 calendar nights)", summary.AmountCents)
	}
}
