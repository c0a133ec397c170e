package auth

import (
	"errors"
	"time"

	"innsuite/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// GuestSessionClaims scope a guest's follow-up portal requests to the
// reservation their payment produced. Anonymous and short-lived.
type GuestSessionClaims struct {
	TenantID      uint   `json:"tenant_id"`
	IntentID      string `json:"intent_id"`
	ReservationID uint   `json:"reservation_id"`
	jwt.RegisteredClaims
}

// CustomerClaims identify a returning guest across stays. Longer-lived and
// bound to the tenant-scoped guest identity.
type CustomerClaims struct {
	TenantID       uint   `json:"tenant_id"`
	GuestProfileID uint   `json:"guest_profile_id"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateGuestSession(cfg *config.TokenConfig, now time.Time, tenantID uint, intentID string, reservationID uint) (string, error) {
	claims := GuestSessionClaims{
		TenantID:      tenantID,
		IntentID:      intentID,
		ReservationID: reservationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.GuestExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.GuestSecret))
}

func GenerateCustomerToken(cfg *config.TokenConfig, now time.Time, tenantID, guestProfileID uint, email string) (string, error) {
	claims := CustomerClaims{
		TenantID:       tenantID,
		GuestProfileID: guestProfileID,
		Email:          email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.CustomerExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.CustomerSecret))
}

func ParseGuestSession(cfg *config.TokenConfig, tokenString string) (*GuestSessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GuestSessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.GuestSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*GuestSessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParseCustomerToken(cfg *config.TokenConfig, tokenString string) (*CustomerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomerClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.CustomerSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*CustomerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
