package ws

import "time"

// AvailabilityEvent tells browsing guests a room just became held or free for
// a date range, so stale room lists shrink without a refresh.
type AvailabilityEvent struct {
	Type     string `json:"type"` // room_held | room_released
	RoomID   uint   `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	At       int64  `json:"at"`
}

// AvailabilityHub adapts the generic hub to the checkout services' event
// callbacks.
type AvailabilityHub struct {
	*Hub
}

func NewAvailabilityHub() *AvailabilityHub {
	return &AvailabilityHub{Hub: NewHub()}
}

func (h *AvailabilityHub) RoomHeld(tenantID, roomID uint, checkIn, checkOut time.Time) {
	h.broadcast(tenantID, "room_held", roomID, checkIn, checkOut)
}

func (h *AvailabilityHub) RoomReleased(tenantID, roomID uint, checkIn, checkOut time.Time) {
	h.broadcast(tenantID, "room_released", roomID, checkIn, checkOut)
}

func (h *AvailabilityHub) broadcast(tenantID uint, eventType string, roomID uint, checkIn, checkOut time.Time) {
	h.BroadcastToTenant(tenantID, AvailabilityEvent{
		Type:     eventType,
		RoomID:   roomID,
		CheckIn:  checkIn.Format(time.RFC3339),
		CheckOut: checkOut.Format(time.RFC3339),
		At:       time.Now().Unix(),
	})
}
