package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/services"
)

// Handlers bundles the service layer behind the HTTP surface. Services
// are value structs; each request gets a copy stamped with its request
// id so service logs stay correlated.
type Handlers struct {
	DB *sql.DB

	Users          services.UserService
	Bookings       services.BookingService
	Payments       services.PaymentService
	ChangeRequests services.ChangeRequestService
	Ratings        services.RatingService
	Docs           services.DocsService
}

func (h *Handlers) users(c *gin.Context) services.UserService {
	s := h.Users
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) bookings(c *gin.Context) services.BookingService {
	s := h.Bookings
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) payments(c *gin.Context) services.PaymentService {
	s := h.Payments
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) changeRequests(c *gin.Context) services.ChangeRequestService {
	s := h.ChangeRequests
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) ratings(c *gin.Context) services.RatingService {
	s := h.Ratings
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) docs(c *gin.Context) services.DocsService {
	s := h.Docs
	s.RequestID = middleware.GetRequestID(c)
	return s
}
