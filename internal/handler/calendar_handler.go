package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orgcomply/internal/service"
)

var errInvalidRange = errors.New("range end precedes start")

// CalendarHandler serves the merged schedule of events and deadline markers.
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// Schedule handles GET /api/v1/calendar
// @Summary Get the compliance calendar
// @Description Events and synthesized deadline markers for the caller's organization, grouped by day
// @Tags calendar
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD), defaults to the first of the current month"
// @Param to query string false "Range end (YYYY-MM-DD), defaults to the last of the current month"
// @Success 200 {object} Response{data=[]domain.CalendarDay} "Calendar days"
// @Failure 400 {object} ErrorResponseBody "Invalid range"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /calendar [get]
func (h *CalendarHandler) Schedule(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	from, to, err := parseRange(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_RANGE", "from and to must be YYYY-MM-DD dates with from <= to")
		return
	}

	days, err := h.calendarService.Schedule(c.Request.Context(), view, from, to)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, days)
}

// parseRange reads the from/to query params, defaulting to the current month.
func parseRange(c *gin.Context) (from, to time.Time, err error) {
	now := time.Now()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, -1)

	if s := c.Query("from"); s != "" {
		if from, err = time.Parse("2006-01-02", s); err != nil {
			return from, to, err
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = time.Parse("2006-01-02", s); err != nil {
			return from, to, err
		}
	}
	if to.Before(from) {
		return from, to, errInvalidRange
	}
	return from, to, nil
}
