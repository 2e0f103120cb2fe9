package handlers

import (
	"time"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

type bookingView struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customer_id"`
	TourID          *int64    `json:"tour_id,omitempty"`
	VehicleID       *int64    `json:"vehicle_id,omitempty"`
	DriverID        *int64    `json:"driver_id,omitempty"`
	TourGuideID     *int64    `json:"tour_guide_id,omitempty"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	PeopleCount     int       `json:"people_count"`
	TotalPrice      float64   `json:"total_price"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func viewBooking(b models.Booking) bookingView {
	return bookingView{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		TourID:          b.TourID,
		VehicleID:       b.VehicleID,
		DriverID:        b.DriverID,
		TourGuideID:     b.TourGuideID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		PeopleCount:     b.PeopleCount,
		TotalPrice:      b.TotalPrice,
		SpecialRequests: b.SpecialRequests,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
	}
}

func viewBookings(list []models.Booking) []bookingView {
	out := make([]bookingView, 0, len(list))
	for _, b := range list {
		out = append(out, viewBooking(b))
	}
	return out
}

type changeRequestView struct {
	ID          int64      `json:"id"`
	BookingID   int64      `json:"booking_id"`
	RequesterID int64      `json:"requester_id"`
	RequestType string     `json:"request_type"`
	OldGuideID  *int64     `json:"old_guide_id,omitempty"`
	OldDriverID *int64     `json:"old_driver_id,omitempty"`
	NewGuideID  *int64     `json:"new_guide_id,omitempty"`
	NewDriverID *int64     `json:"new_driver_id,omitempty"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	ProcessedBy *int64     `json:"processed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func viewChangeRequest(cr models.ChangeRequest) changeRequestView {
	return changeRequestView{
		ID:          cr.ID,
		BookingID:   cr.BookingID,
		RequesterID: cr.RequesterID,
		RequestType: cr.RequestType,
		OldGuideID:  cr.OldGuideID,
		OldDriverID: cr.OldDriverID,
		NewGuideID:  cr.NewGuideID,
		NewDriverID: cr.NewDriverID,
		Status:      cr.Status,
		Reason:      cr.Reason,
		ProcessedBy: cr.ProcessedBy,
		CreatedAt:   cr.CreatedAt,
		ProcessedAt: cr.ProcessedAt,
	}
}

type ratingView struct {
	ID              int64     `json:"id"`
	BookingID       int64     `json:"booking_id"`
	TourGuideID     *int64    `json:"tour_guide_id,omitempty"`
	DriverID        *int64    `json:"driver_id,omitempty"`
	RatingTourGuide *int      `json:"rating_tourguide,omitempty"`
	RatingDriver    *int      `json:"rating_driver,omitempty"`
	ReviewTourGuide string    `json:"review_tourguide,omitempty"`
	ReviewDriver    string    `json:"review_driver,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func viewRating(rt models.Rating) ratingView {
	return ratingView{
		ID:              rt.ID,
		BookingID:       rt.BookingID,
		TourGuideID:     rt.TourGuideID,
		DriverID:        rt.DriverID,
		RatingTourGuide: rt.RatingTourGuide,
		RatingDriver:    rt.RatingDriver,
		ReviewTourGuide: rt.ReviewTourGuide,
		ReviewDriver:    rt.ReviewDriver,
		CreatedAt:       rt.CreatedAt,
		UpdatedAt:       rt.UpdatedAt,
	}
}
