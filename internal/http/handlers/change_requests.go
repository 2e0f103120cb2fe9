package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
)

type createChangeRequestRequest struct {
	BookingID   int64  `json:"booking_id"`
	RequestType string `json:"request_type"`
	Reason      string `json:"reason"`
}

// POST /api/change-requests
func (h *Handlers) CreateChangeRequest(c *gin.Context) {
	var req createChangeRequestRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	cr, err := h.changeRequests(c).CreateChangeRequest(req.BookingID, middleware.UserID(c), req.RequestType, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"change_request": viewChangeRequest(cr)})
}

type processChangeRequestRequest struct {
	Decision    string `json:"decision"`
	NewGuideID  *int64 `json:"new_guide_id"`
	NewDriverID *int64 `json:"new_driver_id"`
}

// PUT /api/change-requests/:id/process
func (h *Handlers) ProcessChangeRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req processChangeRequestRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	err := h.changeRequests(c).ProcessChangeRequest(id, middleware.UserID(c), req.Decision, req.NewGuideID, req.NewDriverID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "change request processed", "decision": req.Decision})
}

// DELETE /api/change-requests/:id
func (h *Handlers) CancelChangeRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.changeRequests(c).CancelChangeRequest(id, middleware.UserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "change request withdrawn"})
}

// GET /api/bookings/:id/assignment-check
// A guide or driver asks whether they still hold the booking.
func (h *Handlers) CheckAssignment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.changeRequests(c).CheckAssignment(id, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
