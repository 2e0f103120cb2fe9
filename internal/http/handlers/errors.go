package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
		Details:   details,
	})
}

// RespondDomainError maps domain errors to HTTP responses. Internal
// details never leak; everything else surfaces its own message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsPermission(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsInvalidState(err):
		respondError(c, http.StatusUnprocessableEntity, "invalid_state", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsWindowExpired(err):
		respondError(c, http.StatusUnprocessableEntity, "window_expired", err.Error(), nil)
	case domain.IsGatewayUnavailable(err):
		respondError(c, http.StatusServiceUnavailable, "gateway_unavailable", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
