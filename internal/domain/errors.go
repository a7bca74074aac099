package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrUnknownOrganization   = errors.New("organization is not in the escalation hierarchy")
	ErrMissingActivityTitle  = errors.New("activity title is required")
	ErrInvalidSubmissionKind = errors.New("invalid submission kind")
	ErrInvalidLink           = errors.New("link must be a valid http or https URL")
	ErrAttachmentRequired    = errors.New("letter of appeal requires exactly one attached document")
	ErrUploadFailed          = errors.New("attachment upload to storage failed")
	ErrBlockedByMissedReport = errors.New("organization has missed report deadlines and cannot file new activity requests")
	ErrNotDeadlineOwner      = errors.New("only the target organization may appeal its own deadline")
	ErrDeadlineSatisfied     = errors.New("deadline is already satisfied; nothing to appeal")
	ErrAppealAlreadyFiled    = errors.New("an appeal for this event is already on file")
	ErrAppealClosed          = errors.New("a rejected appeal is on file for this event")
	ErrNotReviewer           = errors.New("caller is not the reviewing organization for this record")
	ErrInvalidReviewAction   = errors.New("invalid review action; allowed: approve, revise, reject")
	ErrRecordNotDeletable    = errors.New("only terminal, non-escalated records may be deleted")
)
