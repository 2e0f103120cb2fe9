package models

import "time"

// Rating is one row per booking holding up to two sub-ratings. A nil
// sub-rating means that side was never rated; partial updates leave
// the other side untouched.
type Rating struct {
	ID              int64
	BookingID       int64
	CustomerID      int64
	TourGuideID     *int64
	DriverID        *int64
	RatingTourGuide *int
	RatingDriver    *int
	ReviewTourGuide string
	ReviewDriver    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RatingInput carries the fields supplied in one submission. Nil fields
// are omitted from the upsert.
type RatingInput struct {
	RatingTourGuide *int
	RatingDriver    *int
	ReviewTourGuide *string
	ReviewDriver    *string
}
