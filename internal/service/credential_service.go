package service

import (
	"innsuite/config"
	"innsuite/internal/auth"
	"innsuite/internal/clock"
	"innsuite/internal/models"
)

// CredentialService mints the credentials a guest receives exactly once per
// confirmed checkout: an anonymous reservation-scoped session token and a
// longer-lived customer token bound to their guest identity. Both are cached
// on the intent row afterwards, so re-issuance never re-mints.
type CredentialService struct {
	cfg   *config.TokenConfig
	clock clock.Clock
}

func NewCredentialService(cfg *config.TokenConfig, clk clock.Clock) *CredentialService {
	return &CredentialService{cfg: cfg, clock: clk}
}

// Minter returns the mint callback the confirmation transaction invokes after
// materializing the reservation and guest identity.
func (s *CredentialService) Minter(intent *models.CheckoutIntent) func(res *models.Reservation, guest *models.GuestProfile) (string, string, error) {
	return func(res *models.Reservation, guest *models.GuestProfile) (string, string, error) {
		now := s.clock.Now()
		guestSession, err := auth.GenerateGuestSession(s.cfg, now, intent.TenantID, intent.ID, res.ID)
		if err != nil {
			return "", "", err
		}
		customerToken, err := auth.GenerateCustomerToken(s.cfg, now, intent.TenantID, guest.ID, guest.Email)
		if err != nil {
			return "", "", err
		}
		return guestSession, customerToken, nil
	}
}
