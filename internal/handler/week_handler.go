package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// WeekHandler serves the week catalogue.
type WeekHandler struct {
	service *service.WeekService
}

// NewWeekHandler constructs handler.
func NewWeekHandler(svc *service.WeekService) *WeekHandler {
	return &WeekHandler{service: svc}
}

// List godoc
// @Summary List weeks
// @Tags Weeks
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /weeks [get]
func (h *WeekHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	weeks, pagination, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, pagination)
}

// Current godoc
// @Summary Get the current week
// @Tags Weeks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /weeks/current [get]
func (h *WeekHandler) Current(c *gin.Context) {
	week, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Get godoc
// @Summary Get a week
// @Tags Weeks
// @Produce json
// @Param id path string true "Week ID"
// @Success 200 {object} response.Envelope
// @Router /weeks/{id} [get]
func (h *WeekHandler) Get(c *gin.Context) {
	week, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}
