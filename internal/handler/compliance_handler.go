package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"orgcomply/internal/service"
	"orgcomply/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ComplianceHandler handles compliance standing endpoints.
type ComplianceHandler struct {
	submissionService service.SubmissionService
}

// NewComplianceHandler creates a new ComplianceHandler.
func NewComplianceHandler(submissionService service.SubmissionService) *ComplianceHandler {
	return &ComplianceHandler{submissionService: submissionService}
}

// Missed handles GET /api/v1/compliance/missed
// @Summary List missed deadlines
// @Description Lapsed report deadlines of the caller's organization. While any exist, new activity requests are blocked.
// @Tags compliance
// @Produce json
// @Success 200 {object} Response{data=[]domain.MissedDeadline} "Missed deadlines"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /compliance/missed [get]
func (h *ComplianceHandler) Missed(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	missed, err := h.submissionService.Missed(c.Request.Context(), view)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"missed": missed, "blocked": len(missed) > 0})
}

// Export handles GET /api/v1/compliance/export
// @Summary Export the compliance workbook
// @Description Activity log and missed deadlines as an xlsx download
// @Tags compliance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Workbook"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /compliance/export [get]
func (h *ComplianceHandler) Export(c *gin.Context) {
	view, ok := extractOrgContext(c)
	if !ok {
		return
	}

	records, err := h.submissionService.ActivityLog(c.Request.Context(), view, true)
	if err != nil {
		HandleError(c, err)
		return
	}
	missed, err := h.submissionService.Missed(c.Request.Context(), view)
	if err != nil {
		HandleError(c, err)
		return
	}

	w, err := xlsxexport.NewWriter()
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteRecords(records); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteMissed(missed); err != nil {
		HandleError(c, err)
		return
	}

	// Buffer the workbook so a late write error does not corrupt the download.
	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsxexport.BuildFilename(view.Organization)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
