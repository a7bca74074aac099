package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orgcomply/internal/domain"
	"orgcomply/internal/service"
)

// EventHandler handles activity event endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /api/v1/events
// @Summary List events
// @Description Events targeting the caller's organization or any of its subordinates
// @Tags events
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=[]domain.Event} "Events"
// @Failure 400 {object} ErrorResponseBody "Invalid range"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	from, to, err := parseRange(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_RANGE", "from and to must be YYYY-MM-DD dates with from <= to")
		return
	}

	events, err := h.eventService.List(c.Request.Context(), view, from, to)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, events)
}

// GetByID handles GET /api/v1/events/:id
// @Summary Get event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} Response{data=domain.Event} "Event details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Not visible to caller"
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid event ID")
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), view, eventID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, event)
}

// SetDeadlineOverride handles PUT /api/v1/events/:id/deadline-override
// @Summary Pin or clear a report deadline
// @Description Reviewer-only. A null date clears the override and restores the computed deadline.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Param request body OverrideRequest true "Report kind and pinned date"
// @Success 200 {object} Response{data=domain.Event} "Updated event"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Caller is not the reviewer"
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Security BearerAuth
// @Router /events/{id}/deadline-override [put]
func (h *EventHandler) SetDeadlineOverride(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid event ID")
		return
	}

	var req struct {
		Kind string  `json:"kind" binding:"required"`
		Date *string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind is required")
		return
	}

	kind := domain.ReportKind(req.Kind)
	if kind != domain.ReportAccomplishment && kind != domain.ReportLiquidation {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind must be accomplishment or liquidation")
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "date must be YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	event, err := h.eventService.SetDeadlineOverride(c.Request.Context(), view, eventID, kind, date)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, event)
}
