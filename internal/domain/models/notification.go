package models

import "time"

// Notification topics written by the core for downstream staff review.
const (
	NotifyRefundRequested = "refund_requested"
	NotifyChangeRequested = "change_requested"
	NotifyBookingCreated  = "booking_created"
)

// Notification is a human-readable event appended to the sink.
// Nothing in the core reads it back.
type Notification struct {
	ID        int64     `json:"id,omitempty"`
	Topic     string    `json:"topic"`
	BookingID int64     `json:"booking_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
