package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// SubmitReportRequest represents the submission request body.
type SubmitReportRequest struct {
	Kind          string `json:"kind" binding:"required" example:"Request to Conduct Activity"`
	ActivityTitle string `json:"activityTitle" binding:"required" example:"Engineering Week 2026"`
	Link          string `json:"link" example:"https://drive.example.edu/d/abc123"`
	EventID       string `json:"eventId" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ReviewRequest represents the review request body.
type ReviewRequest struct {
	Action string `json:"action" binding:"required" example:"approve"`
	Reason string `json:"reason" example:"budget breakdown is incomplete"`
}

// OverrideRequest represents the deadline override request body.
type OverrideRequest struct {
	Kind string  `json:"kind" binding:"required" example:"liquidation"`
	Date *string `json:"date" example:"2026-03-20"`
}

// --- Response Types ---

// Response is the standard success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody is the standard error envelope.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
