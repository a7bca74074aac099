package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"orgcomply/internal/domain"
	"orgcomply/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUnknownOrganization):
		return http.StatusForbidden, "UNKNOWN_ORGANIZATION", "organization is not part of the reporting hierarchy"
	case errors.Is(err, domain.ErrMissingActivityTitle):
		return http.StatusBadRequest, "MISSING_ACTIVITY_TITLE", "activity title is required"
	case errors.Is(err, domain.ErrInvalidSubmissionKind):
		return http.StatusBadRequest, "INVALID_SUBMISSION_KIND", "submission kind is not accepted on this endpoint"
	case errors.Is(err, domain.ErrInvalidLink):
		return http.StatusBadRequest, "INVALID_LINK", "link must be an absolute http or https URL"
	case errors.Is(err, domain.ErrAttachmentRequired):
		return http.StatusBadRequest, "ATTACHMENT_REQUIRED", "a single pdf, jpg, or png attachment is required"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrBlockedByMissedReport):
		return http.StatusConflict, "BLOCKED_BY_MISSED_REPORT", "new activity requests are blocked until overdue reports are submitted"
	case errors.Is(err, domain.ErrNotDeadlineOwner):
		return http.StatusForbidden, "NOT_DEADLINE_OWNER", "only the organization that owes the report may appeal it"
	case errors.Is(err, domain.ErrDeadlineSatisfied):
		return http.StatusConflict, "DEADLINE_SATISFIED", "the deadline is already satisfied; there is nothing to appeal"
	case errors.Is(err, domain.ErrAppealAlreadyFiled):
		return http.StatusConflict, "APPEAL_ALREADY_FILED", "an appeal for this deadline is already on file"
	case errors.Is(err, domain.ErrAppealClosed):
		return http.StatusConflict, "APPEAL_CLOSED", "the appeal for this deadline was rejected and cannot be reopened"
	case errors.Is(err, domain.ErrNotReviewer):
		return http.StatusForbidden, "NOT_REVIEWER", "caller is not the reviewer of this organization"
	case errors.Is(err, domain.ErrInvalidReviewAction):
		return http.StatusBadRequest, "INVALID_REVIEW_ACTION", "action must be approve, revise, or reject"
	case errors.Is(err, domain.ErrRecordNotDeletable):
		return http.StatusConflict, "RECORD_NOT_DELETABLE", "only rejected records, or approved records other than appeals, may be deleted"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractOrgContext extracts the caller's organization from the request
// context. Returns false if missing (error response already written).
func extractOrgContext(c *gin.Context) (domain.OrgContext, bool) {
	view, err := middleware.GetOrgContext(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing organization context")
		return domain.OrgContext{}, false
	}
	return view, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
