package models

import "time"

// ChangeRequest statuses. pending -> completed (approve) or rejected;
// a withdrawn pending request is deleted outright, not soft-cancelled.
const (
	ChangeRequestPending   = "pending"
	ChangeRequestCompleted = "completed"
	ChangeRequestRejected  = "rejected"
)

// ChangeRequest types: which assignment the customer wants replaced.
const (
	ChangeTourGuide = "tour_guide"
	ChangeDriver    = "driver"
	ChangeBoth      = "both"
)

// ChangeRequest is a customer's ask to replace the assigned driver
// and/or tour guide on an in-progress booking. Old*ID snapshot the
// assignees as of request time so a later replaced participant can be
// told they were replaced rather than silently losing access.
type ChangeRequest struct {
	ID          int64
	BookingID   int64
	RequesterID int64
	RequestType string
	OldGuideID  *int64
	OldDriverID *int64
	NewGuideID  *int64
	NewDriverID *int64
	Status      string
	Reason      string
	ProcessedBy *int64
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// AssignmentCheck answers whether a guide/driver is still the active
// assignee on a booking, and if not, whether they were replaced.
type AssignmentCheck struct {
	IsAssigned  bool       `json:"isAssigned"`
	WasReplaced bool       `json:"wasReplaced"`
	ReplacedBy  *int64     `json:"replacedBy,omitempty"`
	ReplacedAt  *time.Time `json:"replacedAt,omitempty"`
}
