package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled activity owned by the external scheduling collaborator.
// The core reads events and may set the two deadline override columns; every
// other field is immutable from this side.
type Event struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	Title                  string     `db:"title" json:"title"`
	Description            string     `db:"description" json:"description"`
	StartDate              time.Time  `db:"start_date" json:"start_date"`
	EndDate                *time.Time `db:"end_date" json:"end_date"`
	AllDay                 bool       `db:"all_day" json:"all_day"`
	Venue                  string     `db:"venue" json:"venue"`
	TargetOrganization     string     `db:"target_organization" json:"target_organization"`
	RequireAccomplishment  bool       `db:"require_accomplishment" json:"require_accomplishment"`
	RequireLiquidation     bool       `db:"require_liquidation" json:"require_liquidation"`
	AccomplishmentOverride *time.Time `db:"accomplishment_deadline_override" json:"accomplishment_deadline_override"`
	LiquidationOverride    *time.Time `db:"liquidation_deadline_override" json:"liquidation_deadline_override"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// Override returns the stored deadline override for the given report kind.
func (e *Event) Override(kind ReportKind) *time.Time {
	if kind == ReportLiquidation {
		return e.LiquidationOverride
	}
	return e.AccomplishmentOverride
}

// Requires reports whether the event requires the given report kind.
func (e *Event) Requires(kind ReportKind) bool {
	if kind == ReportLiquidation {
		return e.RequireLiquidation
	}
	return e.RequireAccomplishment
}

// SubmissionRecord is one append-only filing in the submission ledger.
// ActivityTitle is a free-text join key to Event.Title, not a foreign key;
// EventID is optional linkage only and never used to fold status. The
// bigserial ID doubles as the deterministic tie-break for "most recent".
type SubmissionRecord struct {
	ID            int64            `db:"id" json:"id"`
	Organization  string           `db:"organization" json:"organization"`
	Kind          SubmissionKind   `db:"kind" json:"kind"`
	ActivityTitle string           `db:"activity_title" json:"activity_title"`
	Status        SubmissionStatus `db:"status" json:"status"`
	SubmittedTo   string           `db:"submitted_to" json:"submitted_to"`
	EventID       *uuid.UUID       `db:"event_id" json:"event_id"`
	Link          string           `db:"link" json:"link"`
	AttachmentURL string           `db:"attachment_url" json:"attachment_url"`
	AttachmentKey string           `db:"attachment_key" json:"-"`
	Reason        string           `db:"reason" json:"reason"`
	AuditOpinion  string           `db:"audit_opinion" json:"audit_opinion"`
	SubmittedAt   time.Time        `db:"submitted_at" json:"submitted_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// DeadlineMarker is a synthesized, never-persisted deadline entity: "report
// Kind is due on DueDate for ParentEventID". Markers are recomputed in full
// on every resolution pass.
type DeadlineMarker struct {
	ID                 string       `json:"id"`
	Kind               ReportKind   `json:"kind"`
	Title              string       `json:"title"`
	DueDate            time.Time    `json:"due_date"`
	ParentEventID      uuid.UUID    `json:"parent_event_id"`
	TargetOrganization string       `json:"target_organization"`
	HasOverride        bool         `json:"has_override"`
	SubmissionStatus   MarkerStatus `json:"submission_status"`
	AppealState        AppealState  `json:"appeal_state"`
}

// MarkerID builds the stable identifier for a synthesized marker.
func MarkerID(eventID uuid.UUID, kind ReportKind) string {
	return fmt.Sprintf("%s-%s-deadline", eventID, kind)
}

// MissedDeadline flags a deadline marker that is past due with no qualifying
// filing in the ledger.
type MissedDeadline struct {
	Marker        DeadlineMarker `json:"marker"`
	ActivityTitle string         `json:"activity_title"`
	DaysOverdue   int            `json:"days_overdue"`
}

// CalendarDay is the merged per-date view handed to the presentation
// collaborator: real events plus synthesized deadline markers.
type CalendarDay struct {
	Date    time.Time        `json:"date"`
	Events  []Event          `json:"events"`
	Markers []DeadlineMarker `json:"markers"`
}

// Notification is a persisted fire-and-forget message between organizations.
type Notification struct {
	ID          int64      `db:"id" json:"id"`
	EventID     *uuid.UUID `db:"event_id" json:"event_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	FromOrg     string     `db:"from_org" json:"from_org"`
	ToOrg       string     `db:"to_org" json:"to_org"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
