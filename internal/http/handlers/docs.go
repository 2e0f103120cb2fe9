package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
)

// GET /api/bookings/:id/e-ticket
func (h *Handlers) GetBookingETicket(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.docs(c).GenerateETicket(id, middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, data, filename)
}

// GET /api/bookings/:id/receipt
func (h *Handlers) GetBookingReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.docs(c).GenerateReceipt(id, middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, data, filename)
}

func servePDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
