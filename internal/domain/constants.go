package domain

import (
	"math"
	"time"
)

const (
	GatewayPaystack    = "paystack"
	GatewayFlutterwave = "flutterwave"
	GatewayStripe      = "stripe"
)

const (
	IntentStatusPending   = "PENDING"
	IntentStatusConfirmed = "CONFIRMED"
	IntentStatusExpired   = "EXPIRED"
	IntentStatusFailed    = "FAILED"
)

const (
	HoldStatusActive    = "ACTIVE"
	HoldStatusReleased  = "RELEASED"
	HoldStatusConverted = "CONVERTED"
)

const (
	ReservationStatusBooked     = "BOOKED"
	ReservationStatusCheckedIn  = "CHECKED_IN"
	ReservationStatusCheckedOut = "CHECKED_OUT"
	ReservationStatusCancelled  = "CANCELLED"
)

// Overlaps reports whether the half-open stay ranges [a1, a2) and [b1, b2)
// intersect. Half-open semantics let a check-out and a check-in share a day.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// Nights counts the calendar nights between check-in and check-out. Stays are
// priced per date boundary crossed, not per elapsed 24-hour block, so a 15:00
// check-in with an 11:00 check-out two days later is still two nights.
func Nights(checkIn, checkOut time.Time) int {
	a := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(b.Sub(a).Hours() / 24))
}
