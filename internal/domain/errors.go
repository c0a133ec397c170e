package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomUnavailable    = errors.New("room unavailable for the requested dates")
	ErrNoRateResolvable   = errors.New("no rate configured for room")
	ErrUnsupportedGateway = errors.New("gateway not supported by tenant")
	ErrGateway            = errors.New("payment gateway error")
	ErrIntentNotFound     = errors.New("checkout intent not found")
	ErrIntentExpired      = errors.New("checkout intent expired")
	ErrPaymentFailed      = errors.New("payment failed")
)
