package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
)

// GET /api/tours
func (h *Handlers) ListTours(c *gin.Context) {
	repo := repositories.CatalogRepository{DB: h.DB}
	tours, err := repo.ListTours(h.DB)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tours": tours})
}

// GET /api/tours/:id
func (h *Handlers) GetTour(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.CatalogRepository{DB: h.DB}
	tour, err := repo.GetTour(h.DB, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tour": tour})
}

// GET /api/vehicles
func (h *Handlers) ListVehicles(c *gin.Context) {
	repo := repositories.CatalogRepository{DB: h.DB}
	vehicles, err := repo.ListVehicles(h.DB)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// GET /api/vehicles/:id
func (h *Handlers) GetVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.CatalogRepository{DB: h.DB}
	vehicle, err := repo.GetVehicle(h.DB, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}
