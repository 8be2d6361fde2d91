package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// AvailabilityHandler manages availability declarations for talents and
// demand slots for companies.
type AvailabilityHandler struct {
	service *service.AvailabilityService
	talents *service.TalentService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService, talents *service.TalentService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc, talents: talents}
}

// ListTalentAvailability godoc
// @Summary List a talent's declared availability
// @Tags Availability
// @Produce json
// @Param id path string true "Talent ID"
// @Success 200 {object} response.Envelope
// @Router /talents/{id}/availability [get]
func (h *AvailabilityHandler) ListTalentAvailability(c *gin.Context) {
	slots, err := h.service.ListForTalent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// DeclareTalentAvailability godoc
// @Summary Replace a talent's weekly availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Talent ID"
// @Param payload body service.DeclareAvailabilityRequest true "Slots"
// @Success 200 {object} response.Envelope
// @Router /talents/{id}/availability [put]
func (h *AvailabilityHandler) DeclareTalentAvailability(c *gin.Context) {
	var req service.DeclareAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slots, err := h.service.Declare(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// DeclareOwnAvailability godoc
// @Summary Replace the caller's weekly availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.DeclareAvailabilityRequest true "Slots"
// @Success 200 {object} response.Envelope
// @Router /me/availability [put]
func (h *AvailabilityHandler) DeclareOwnAvailability(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	talent, err := h.talents.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.DeclareAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slots, err := h.service.Declare(c.Request.Context(), talent.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ListCompanySlots godoc
// @Summary List a company's demand slots
// @Tags Availability
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} response.Envelope
// @Router /companies/{id}/slots [get]
func (h *AvailabilityHandler) ListCompanySlots(c *gin.Context) {
	slots, err := h.service.ListForCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// UpsertCompanySlot godoc
// @Summary Declare or update a company demand slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param payload body service.UpsertCompanySlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /companies/{id}/slots [put]
func (h *AvailabilityHandler) UpsertCompanySlot(c *gin.Context) {
	var req service.UpsertCompanySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.UpsertCompanySlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// DeleteCompanySlot godoc
// @Summary Delete a company demand slot
// @Tags Availability
// @Produce json
// @Param id path string true "Company ID"
// @Param slotId path string true "Slot ID"
// @Success 204
// @Router /companies/{id}/slots/{slotId} [delete]
func (h *AvailabilityHandler) DeleteCompanySlot(c *gin.Context) {
	if err := h.service.DeleteCompanySlot(c.Request.Context(), c.Param("id"), c.Param("slotId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
