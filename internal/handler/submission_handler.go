package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orgcomply/internal/domain"
	"orgcomply/internal/service"
)

// SubmissionHandler handles the submission ledger endpoints.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Create handles POST /api/v1/submissions
// @Summary File a paperwork submission
// @Description Append a pending record to the ledger and notify the reviewer. Letters of appeal use the appeals endpoint instead.
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body SubmitReportRequest true "Submission details"
// @Success 201 {object} Response{data=domain.SubmissionRecord} "Record created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Organization has no reviewer"
// @Failure 409 {object} ErrorResponseBody "Blocked by a missed report deadline"
// @Security BearerAuth
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	var req struct {
		Kind          string `json:"kind" binding:"required"`
		ActivityTitle string `json:"activityTitle" binding:"required"`
		Link          string `json:"link"`
		EventID       string `json:"eventId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind and activityTitle are required")
		return
	}

	record, err := h.submissionService.SubmitReport(c.Request.Context(), view, service.SubmitReportInput{
		Kind:          domain.SubmissionKind(req.Kind),
		ActivityTitle: req.ActivityTitle,
		Link:          req.Link,
		EventID:       req.EventID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, record)
}

// Review handles POST /api/v1/submissions/:id/review
// @Summary Review a submission
// @Description Approve, send back for revision, or reject a record submitted to the caller
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param request body ReviewRequest true "Review action and optional reason"
// @Success 200 {object} Response{data=domain.SubmissionRecord} "Updated record"
// @Failure 400 {object} ErrorResponseBody "Invalid action"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Record was not submitted to caller"
// @Failure 404 {object} ErrorResponseBody "Record not found"
// @Security BearerAuth
// @Router /submissions/{id}/review [post]
func (h *SubmissionHandler) Review(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "action is required")
		return
	}

	record, err := h.submissionService.Review(c.Request.Context(), view, id, domain.ReviewAction(req.Action), req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}

// Delete handles DELETE /api/v1/submissions/:id
// @Summary Delete a settled submission
// @Description Remove a record the caller filed, once it has reached a terminal status
// @Tags submissions
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} Response "Record deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Record belongs to another organization"
// @Failure 404 {object} ErrorResponseBody "Record not found"
// @Failure 409 {object} ErrorResponseBody "Record is not deletable"
// @Security BearerAuth
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), view, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// ActivityLog handles GET /api/v1/submissions/log
// @Summary Get the activity log
// @Description Records visible to the caller. By default only the latest record per activity and kind; full=true returns every record.
// @Tags submissions
// @Produce json
// @Param full query bool false "Return the unreduced ledger"
// @Success 200 {object} Response{data=[]domain.SubmissionRecord} "Activity log"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /submissions/log [get]
func (h *SubmissionHandler) ActivityLog(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	full := c.Query("full") == "true"
	records, err := h.submissionService.ActivityLog(c.Request.Context(), view, full)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}
