package models

import "time"

// Payment statuses. At most one payment per booking ever reaches
// completed; refunded is set by staff outside this core.
const (
	PaymentPending         = "pending"
	PaymentCompleted       = "completed"
	PaymentFailed          = "failed"
	PaymentRefundRequested = "refund_requested"
	PaymentRefunded        = "refunded"
)

// Payment is one row in a booking's payment attempt lineage, keyed by
// booking id plus the gateway transaction reference.
type Payment struct {
	ID              int64
	BookingID       int64
	Amount          float64
	Method          string
	TxRef           string
	Status          string
	RefundRequested bool
	PaidAt          *time.Time
	CreatedAt       time.Time
}
