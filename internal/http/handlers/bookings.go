package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/services"
)

type createBookingRequest struct {
	TourID          *int64 `json:"tour_id"`
	VehicleID       *int64 `json:"vehicle_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	PeopleCount     int    `json:"people_count"`
	SpecialRequests string `json:"special_requests"`
}

// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.bookings(c).CreateBooking(services.CreateBookingInput{
		CustomerID:      middleware.UserID(c),
		TourID:          req.TourID,
		VehicleID:       req.VehicleID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		PeopleCount:     req.PeopleCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": viewBooking(b)})
}

// GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.bookings(c).GetBooking(id, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": viewBooking(b)})
}

// GET /api/bookings
func (h *Handlers) ListMyBookings(c *gin.Context) {
	list, err := h.bookings(c).ListCustomerBookings(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": viewBookings(list)})
}

type assignBookingRequest struct {
	TourGuideID *int64 `json:"tour_guide_id"`
	DriverID    *int64 `json:"driver_id"`
	VehicleID   *int64 `json:"vehicle_id"`
}

// PUT /api/bookings/:id/assign
func (h *Handlers) AssignBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req assignBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	err := h.bookings(c).AssignBooking(id, middleware.UserID(c), models.BookingAssignment{
		TourGuideID: req.TourGuideID,
		DriverID:    req.DriverID,
		VehicleID:   req.VehicleID,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment updated"})
}

// POST /api/bookings/:id/start
func (h *Handlers) StartTour(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings(c).StartTour(id, middleware.UserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tour started", "status": models.BookingInProgress})
}

// POST /api/bookings/:id/finish
func (h *Handlers) FinishTour(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings(c).FinishTour(id, middleware.UserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tour completed", "status": models.BookingCompleted})
}

// POST /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings(c).CancelBooking(id, middleware.UserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled", "status": models.BookingCancelled})
}
