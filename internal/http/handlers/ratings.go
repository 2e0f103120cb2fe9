package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
)

type submitRatingRequest struct {
	RatingTourGuide *int    `json:"rating_tourguide"`
	RatingDriver    *int    `json:"rating_driver"`
	ReviewTourGuide *string `json:"review_tourguide"`
	ReviewDriver    *string `json:"review_driver"`
}

// POST /api/bookings/:id/rating
func (h *Handlers) SubmitRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req submitRatingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	ratingID, err := h.ratings(c).SubmitRating(id, middleware.UserID(c), models.RatingInput{
		RatingTourGuide: req.RatingTourGuide,
		RatingDriver:    req.RatingDriver,
		ReviewTourGuide: req.ReviewTourGuide,
		ReviewDriver:    req.ReviewDriver,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating_id": ratingID})
}

// GET /api/bookings/:id/rating
func (h *Handlers) GetBookingRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rt, err := h.ratings(c).GetBookingRating(id, middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": viewRating(rt)})
}

// GET /api/bookings/:id/can-rate
func (h *Handlers) CanRateBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ok2, err := h.ratings(c).CanRateBooking(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_rate": ok2})
}
