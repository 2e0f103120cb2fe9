package models

import "time"

// Booking statuses. The only legal progressions are
// pending -> confirmed -> in_progress -> completed and
// pending|confirmed -> cancelled. completed/cancelled are terminal.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking is a reservation of a tour and/or vehicle for a date range.
// At least one of TourID/VehicleID is always set; driver and tour guide
// stay null until staff assigns them.
type Booking struct {
	ID              int64
	CustomerID      int64
	TourID          *int64
	VehicleID       *int64
	DriverID        *int64
	TourGuideID     *int64
	StartDate       string
	EndDate         string
	PeopleCount     int
	TotalPrice      float64
	SpecialRequests string
	Status          string
	CreatedAt       time.Time
}

// BookingAssignment supports PATCH-style staff assignment via key presence.
type BookingAssignment struct {
	TourGuideID *int64
	DriverID    *int64
	VehicleID   *int64
}

// NewBooking carries validated input for booking creation.
type NewBooking struct {
	CustomerID      int64
	TourID          *int64
	VehicleID       *int64
	StartDate       string
	EndDate         string
	PeopleCount     int
	TotalPrice      float64
	SpecialRequests string
}
