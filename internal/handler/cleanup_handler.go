package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// CleanupHandler exposes the weekly availability reset job to operators.
type CleanupHandler struct {
	service *service.CleanupService
}

// NewCleanupHandler constructs handler.
func NewCleanupHandler(svc *service.CleanupService) *CleanupHandler {
	return &CleanupHandler{service: svc}
}

// Run godoc
// @Summary Trigger the availability reset for a week
// @Tags Admin
// @Produce json
// @Param week query string false "Week start date (YYYY-MM-DD), defaults to the current week"
// @Success 200 {object} response.Envelope
// @Router /admin/availability-reset/run [post]
func (h *CleanupHandler) Run(c *gin.Context) {
	weekStart, ok := parseWeekQuery(c)
	if !ok {
		return
	}
	if weekStart.IsZero() {
		weekStart = models.WeekStartFor(time.Now().UTC())
	}

	record, err := h.service.RunNow(c.Request.Context(), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// LastRun godoc
// @Summary Show the most recent availability reset
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/availability-reset/last [get]
func (h *CleanupHandler) LastRun(c *gin.Context) {
	record, err := h.service.LastRun(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if record == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "availability reset has never run"))
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// History godoc
// @Summary List past availability resets
// @Tags Admin
// @Produce json
// @Param limit query int false "Maximum records" default(20)
// @Success 200 {object} response.Envelope
// @Router /admin/availability-reset/history [get]
func (h *CleanupHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	records, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
