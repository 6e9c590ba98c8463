package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/services"
	"github.com/gin-gonic/gin"
)

// BeneficiaryHandler handles saved recipient requests
type BeneficiaryHandler struct {
	beneficiaries services.BeneficiaryService
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler
func NewBeneficiaryHandler(beneficiaries services.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiaries: beneficiaries}
}

// List handles GET /beneficiaries
func (h *BeneficiaryHandler) List(c *gin.Context) {
	list, err := h.beneficiaries.List(c.Request.Context(), clientID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load beneficiaries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Save handles POST /beneficiaries. Saving a known phone leaves the list unchanged.
func (h *BeneficiaryHandler) Save(c *gin.Context) {
	var b models.Beneficiary
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.beneficiaries.Save(c.Request.Context(), clientID(c), b)
	if errors.Is(err, services.ErrInvalidBeneficiary) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save beneficiary: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Remove handles DELETE /beneficiaries/:phone
func (h *BeneficiaryHandler) Remove(c *gin.Context) {
	list, err := h.beneficiaries.Remove(c.Request.Context(), clientID(c), c.Param("phone"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove beneficiary: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}
