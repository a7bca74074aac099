package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orgcomply/internal/domain"
	"orgcomply/internal/service"
)

// AppealHandler handles letter-of-appeal endpoints.
type AppealHandler struct {
	appealService service.AppealService
}

// NewAppealHandler creates a new AppealHandler.
func NewAppealHandler(appealService service.AppealService) *AppealHandler {
	return &AppealHandler{appealService: appealService}
}

// Create handles POST /api/v1/appeals
// @Summary File a letter of appeal
// @Description Multipart upload against an unmet deadline: eventId and kind fields plus exactly one document
// @Tags appeals
// @Accept multipart/form-data
// @Produce json
// @Param eventId formData string true "Event ID (UUID)"
// @Param kind formData string true "Report kind: accomplishment or liquidation"
// @Param file formData file true "Appeal document (pdf, jpg, or png)"
// @Success 201 {object} Response{data=domain.SubmissionRecord} "Appeal filed"
// @Failure 400 {object} ErrorResponseBody "Invalid request or attachment"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Caller does not owe this deadline"
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Failure 409 {object} ErrorResponseBody "Deadline satisfied, appeal already filed, or appeal closed"
// @Security BearerAuth
// @Router /appeals [post]
func (h *AppealHandler) Create(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.PostForm("eventId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "eventId must be a valid UUID")
		return
	}

	kind := domain.ReportKind(c.PostForm("kind"))
	if kind != domain.ReportAccomplishment && kind != domain.ReportLiquidation {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind must be accomplishment or liquidation")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		return
	}
	files := form.File["file"]
	if len(files) != 1 {
		HandleError(c, domain.ErrAttachmentRequired)
		return
	}

	file, err := files[0].Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read attachment")
		return
	}
	defer file.Close()

	record, err := h.appealService.SubmitAppeal(c.Request.Context(), view, service.SubmitAppealInput{
		EventID: eventID,
		Kind:    kind,
		File:    file,
		Header:  files[0],
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, record)
}

// State handles GET /api/v1/appeals/:eventId/state
// @Summary Get the appeal state for an event
// @Tags appeals
// @Produce json
// @Param eventId path string true "Event ID (UUID)"
// @Success 200 {object} Response{data=string} "Appeal state"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Security BearerAuth
// @Router /appeals/{eventId}/state [get]
func (h *AppealHandler) State(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid event ID")
		return
	}

	state, err := h.appealService.StateFor(c.Request.Context(), view, eventID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"state": state})
}

// Attachment handles GET /api/v1/appeals/attachments/:id
// @Summary Get a download link for an appeal document
// @Description Returns a short-lived presigned URL; only the filer and its reviewer may fetch it
// @Tags appeals
// @Produce json
// @Param id path int true "Appeal record ID"
// @Success 200 {object} Response{data=map[string]string} "Presigned URL"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Record not visible to caller"
// @Failure 404 {object} ErrorResponseBody "Record not found or has no document"
// @Security BearerAuth
// @Router /appeals/attachments/{id} [get]
func (h *AppealHandler) Attachment(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	url, err := h.appealService.AttachmentLink(c.Request.Context(), view, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
