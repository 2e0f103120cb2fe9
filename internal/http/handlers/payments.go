package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
)

type initPaymentRequest struct {
	BookingID int64  `json:"booking_id"`
	Method    string `json:"method"`
}

// POST /api/payments/initialize
func (h *Handlers) InitializePayment(c *gin.Context) {
	var req initPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.payments(c).InitializePayment(c.Request.Context(), req.BookingID, middleware.UserID(c), req.Method)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type verifyPaymentRequest struct {
	TxRef     string `json:"tx_ref"`
	BookingID int64  `json:"booking_id"`
}

// POST /api/payments/verify
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.TxRef == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "tx_ref is required", nil)
		return
	}
	res, err := h.payments(c).VerifyPayment(c.Request.Context(), req.TxRef, req.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type webhookPayload struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// POST /api/payments/webhook
// Gateway-initiated settlement; unauthenticated, idempotent.
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	var payload webhookPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.TxRef == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "tx_ref is required", nil)
		return
	}
	if err := h.payments(c).HandleWebhook(c.Request.Context(), payload.TxRef, payload.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

type refundRequest struct {
	BookingID int64  `json:"booking_id"`
	Reason    string `json:"reason"`
}

// POST /api/payments/refund-request
func (h *Handlers) RequestRefund(c *gin.Context) {
	var req refundRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.payments(c).RequestRefund(req.BookingID, middleware.UserID(c), req.Reason); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refund request recorded; staff will process it"})
}
