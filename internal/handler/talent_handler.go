package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// TalentHandler manages talent roster endpoints.
type TalentHandler struct {
	service *service.TalentService
}

// NewTalentHandler constructs handler.
func NewTalentHandler(svc *service.TalentService) *TalentHandler {
	return &TalentHandler{service: svc}
}

// List godoc
// @Summary List talents
// @Tags Talents
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /talents [get]
func (h *TalentHandler) List(c *gin.Context) {
	var filter models.TalentFilter
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	talents, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, talents, pagination)
}

// Get godoc
// @Summary Get a talent
// @Tags Talents
// @Produce json
// @Param id path string true "Talent ID"
// @Success 200 {object} response.Envelope
// @Router /talents/{id} [get]
func (h *TalentHandler) Get(c *gin.Context) {
	talent, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, talent, nil)
}

// Create godoc
// @Summary Register a talent
// @Tags Talents
// @Accept json
// @Produce json
// @Param payload body service.CreateTalentRequest true "Talent payload"
// @Success 201 {object} response.Envelope
// @Router /talents [post]
func (h *TalentHandler) Create(c *gin.Context) {
	var req service.CreateTalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	talent, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, talent)
}

// Update godoc
// @Summary Update a talent
// @Tags Talents
// @Accept json
// @Produce json
// @Param id path string true "Talent ID"
// @Param payload body service.UpdateTalentRequest true "Talent payload"
// @Success 200 {object} response.Envelope
// @Router /talents/{id} [put]
func (h *TalentHandler) Update(c *gin.Context) {
	var req service.UpdateTalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	talent, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, talent, nil)
}

// Deactivate godoc
// @Summary Deactivate a talent
// @Tags Talents
// @Produce json
// @Param id path string true "Talent ID"
// @Success 204
// @Router /talents/{id} [delete]
func (h *TalentHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
