package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/middleware"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/services"
	"github.com/ArowuTest/billstack-storefront/internal/wizard"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

const (
	maxImageUpload = 10 << 20
	settleTimeout  = 5 * time.Second
)

// WizardHandler handles purchase wizard HTTP requests
type WizardHandler struct {
	wizards       services.WizardService
	beneficiaries services.BeneficiaryService
	// images is nil when gift card uploads are disabled
	images services.GiftCardImageService
}

// NewWizardHandler creates a new WizardHandler
func NewWizardHandler(wizards services.WizardService, beneficiaries services.BeneficiaryService, images services.GiftCardImageService) *WizardHandler {
	return &WizardHandler{wizards: wizards, beneficiaries: beneficiaries, images: images}
}

func clientID(c *gin.Context) string {
	return c.GetString(middleware.ClientIDKey)
}

// writeWizardError maps wizard and gateway errors onto status codes
func writeWizardError(c *gin.Context, err error) {
	var gate *wizard.GateError
	var apiErr *billstack.APIError
	switch {
	case errors.As(err, &gate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": gate.Error(), "step": gate.Step, "missing": gate.Missing})
	case errors.Is(err, wizard.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, wizard.ErrNoBeneficiary):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrFieldNotApplicable), errors.Is(err, wizard.ErrRowIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrSessionClosed), errors.Is(err, wizard.ErrNoForwardStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
	default:
		slog.Error("Wizard request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *WizardHandler) session(c *gin.Context) (*wizard.Session, bool) {
	sess, err := h.wizards.Get(clientID(c), c.Param("id"))
	if err != nil {
		writeWizardError(c, err)
		return nil, false
	}
	return sess, true
}

func rowIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid row index"})
		return 0, false
	}
	return idx, true
}

// Open handles POST /wizard/sessions
func (h *WizardHandler) Open(c *gin.Context) {
	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := models.ParsePurchaseType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.wizards.Open(c.Request.Context(), clientID(c), t)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess.Snapshot())
}

// Get handles GET /wizard/sessions/:id. With ?wait=true it first lets pending lookups settle.
func (h *WizardHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), settleTimeout)
		defer cancel()
		if err := sess.Wait(ctx); err != nil {
			slog.Debug("Session did not settle", "sessionId", sess.ID(), "error", err)
		}
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// SetFields handles PATCH /wizard/sessions/:id/fields with an ordered list of edits
func (h *WizardHandler) SetFields(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var edits []wizard.FieldEdit
	if err := c.ShouldBindJSON(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.SetFields(edits); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// SetBulk handles PUT /wizard/sessions/:id/bulk
func (h *WizardHandler) SetBulk(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.SetBulk(req.Enabled); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// AddRow handles POST /wizard/sessions/:id/bulk/rows
func (h *WizardHandler) AddRow(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := sess.AddRow(); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// UpdateRow handles PATCH /wizard/sessions/:id/bulk/rows/:idx
func (h *WizardHandler) UpdateRow(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	var row models.BulkRecipient
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.UpdateRow(idx, row); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// RemoveRow handles DELETE /wizard/sessions/:id/bulk/rows/:idx
func (h *WizardHandler) RemoveRow(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	if err := sess.RemoveRow(idx); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Advance handles POST /wizard/sessions/:id/advance
func (h *WizardHandler) Advance(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := sess.Advance(c.Request.Context()); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Back handles POST /wizard/sessions/:id/back
func (h *WizardHandler) Back(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := sess.Back(); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Reopen handles POST /wizard/sessions/:id/open
func (h *WizardHandler) Reopen(c *gin.Context) {
	sess, err := h.wizards.Reopen(c.Request.Context(), clientID(c), c.Param("id"))
	if err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Close handles DELETE /wizard/sessions/:id
func (h *WizardHandler) Close(c *gin.Context) {
	if err := h.wizards.Close(clientID(c), c.Param("id")); err != nil {
		writeWizardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadGiftCardImage handles POST /wizard/sessions/:id/giftcard-images
func (h *WizardHandler) UploadGiftCardImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gift card uploads are disabled"})
		return
	}
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if sess.Type() != models.PurchaseGiftCard {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Images can only be attached to gift card sessions"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file upload request"})
		return
	}
	defer file.Close()
	if header.Size > maxImageUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 10MiB limit"})
		return
	}

	url, err := h.images.Upload(c.Request.Context(), sess.ID(), file)
	if errors.Is(err, services.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is not a supported image"})
		return
	}
	if err != nil {
		writeWizardError(c, err)
		return
	}
	if err := sess.AddGiftCardImage(url); err != nil {
		writeWizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess.Snapshot())
}

// SaveBeneficiary handles POST /wizard/sessions/:id/beneficiary. It stores the session's
// single airtime or data recipient under the buyer's name.
func (h *WizardHandler) SaveBeneficiary(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	b, err := sess.Beneficiary()
	if err != nil {
		writeWizardError(c, err)
		return
	}
	list, err := h.beneficiaries.Save(c.Request.Context(), clientID(c), b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save beneficiary: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}
