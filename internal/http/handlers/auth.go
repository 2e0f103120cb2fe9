package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, token, err := h.users(c).Login(req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := h.users(c).Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}
