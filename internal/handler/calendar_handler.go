package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// CalendarHandler serves the weekly scheduling projections.
type CalendarHandler struct {
	service *service.CalendarService
	talents *service.TalentService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(svc *service.CalendarService, talents *service.TalentService) *CalendarHandler {
	return &CalendarHandler{service: svc, talents: talents}
}

// Week godoc
// @Summary Ops calendar for a week
// @Tags Calendar
// @Produce json
// @Param week query string false "Week start date (YYYY-MM-DD), defaults to current week"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Week(c *gin.Context) {
	weekStart, ok := parseWeekQuery(c)
	if !ok {
		return
	}
	calendar, err := h.service.WeekCalendar(c.Request.Context(), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// WeekByID godoc
// @Summary Ops calendar for a known week
// @Tags Calendar
// @Produce json
// @Param id path string true "Week ID"
// @Success 200 {object} response.Envelope
// @Router /weeks/{id}/calendar [get]
func (h *CalendarHandler) WeekByID(c *gin.Context) {
	calendar, err := h.service.WeekCalendarByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Talent godoc
// @Summary Talent-facing schedule for a week
// @Tags Calendar
// @Produce json
// @Param id path string true "Talent ID"
// @Param week query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /talents/{id}/calendar [get]
func (h *CalendarHandler) Talent(c *gin.Context) {
	weekStart, ok := parseWeekQuery(c)
	if !ok {
		return
	}
	calendar, err := h.service.TalentCalendar(c.Request.Context(), c.Param("id"), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Self godoc
// @Summary Authenticated talent's schedule for a week
// @Tags Calendar
// @Produce json
// @Param week query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /me/calendar [get]
func (h *CalendarHandler) Self(c *gin.Context) {
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
	weekStart, ok := parseWeekQuery(c)
	if !ok {
		return
	}
	calendar, err := h.service.TalentCalendar(c.Request.Context(), talent.ID, weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}
