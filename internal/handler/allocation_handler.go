package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/dto"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// AllocationHandler exposes the booking allocator.
type AllocationHandler struct {
	service *service.AllocationService
	talents *service.TalentService
}

// NewAllocationHandler constructs handler.
func NewAllocationHandler(svc *service.AllocationService, talents *service.TalentService) *AllocationHandler {
	return &AllocationHandler{service: svc, talents: talents}
}

// AllocateTalent godoc
// @Summary Run the matcher for one talent
// @Tags Allocations
// @Produce json
// @Param id path string true "Talent ID"
// @Param week query string false "Week start date (YYYY-MM-DD), defaults to current week"
// @Param quota query int false "Maximum bookings to create"
// @Success 201 {object} response.Envelope
// @Router /allocations/talents/{id} [post]
func (h *AllocationHandler) AllocateTalent(c *gin.Context) {
	weekStart, ok := parseWeekQuery(c)
	if !ok {
		return
	}
	quota, _ := strconv.Atoi(c.DefaultQuery("quota", "0"))

	result, err := h.service.AllocateTalent(c.Request.Context(), c.Param("id"), weekStart, quota)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// AllocateSelf godoc
// @Summary Run the matcher for the authenticated talent
// @Tags Allocations
// @Produce json
// @Param week query string false "Week start date (YYYY-MM-DD)"
// @Success 201 {object} response.Envelope
// @Router /me/allocation [post]
func (h *AllocationHandler) AllocateSelf(c *gin.Context) {
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

	result, err := h.service.AllocateTalent(c.Request.Context(), talent.ID, weekStart, 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// AllocateAll godoc
// @Summary Run the matcher for every active talent
// @Tags Allocations
// @Produce json
// @Param week query string false "Week start date (YYYY-MM-DD)"
// @Param quota query int false "Maximum bookings per talent"
// @Success 200 {object} response.Envelope
// @Router /allocations/run [post]
func (h *AllocationHandler) AllocateAll(c *gin.Context) {
	weekStart, ok := parseWeekQuery(c)
	if !ok {
		return
	}
	quota, _ := strconv.Atoi(c.DefaultQuery("quota", "0"))

	result, err := h.service.AllocateAll(c.Request.Context(), weekStart, quota)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AssignManual godoc
// @Summary Book a talent into a specific company slot
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.ManualAssignRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Router /allocations/manual [post]
func (h *AllocationHandler) AssignManual(c *gin.Context) {
	var req dto.ManualAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	booking, err := h.service.AssignManual(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// parseWeekQuery reads the optional week query param. On a malformed
// date it writes the error response and returns false.
func parseWeekQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("week")
	if raw == "" {
		return time.Time{}, true
	}
	weekStart, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid week date, expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return weekStart, true
}
