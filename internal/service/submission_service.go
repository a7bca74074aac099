package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"orgcomply/internal/deadline"
	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
	"orgcomply/internal/port"
)

// SubmitReportInput is the DTO for report submissions. EventID is a raw
// string on purpose: an invalid UUID is coerced to an unlinked record rather
// than failing the whole submission.
type SubmitReportInput struct {
	Kind          domain.SubmissionKind
	ActivityTitle string
	Link          string
	EventID       string
}

// SubmissionService manages the submission ledger: filing, reviewing and
// deleting records, plus the derived activity-log and missed-deadline views.
type SubmissionService interface {
	SubmitReport(ctx context.Context, view domain.OrgContext, input SubmitReportInput) (*domain.SubmissionRecord, error)
	Review(ctx context.Context, view domain.OrgContext, id int64, action domain.ReviewAction, reason string) (*domain.SubmissionRecord, error)
	Delete(ctx context.Context, view domain.OrgContext, id int64) error
	ActivityLog(ctx context.Context, view domain.OrgContext, full bool) ([]domain.SubmissionRecord, error)
	Missed(ctx context.Context, view domain.OrgContext) ([]domain.MissedDeadline, error)
}

type submissionService struct {
	subRepo   port.SubmissionRepository
	eventRepo port.EventRepository
	notifRepo port.NotificationRepository
	notifier  port.Notifier
	hier      *domain.Hierarchy
	detector  *deadline.Detector
	now       func() time.Time
}

// NewSubmissionService creates a new SubmissionService implementation.
func NewSubmissionService(
	subRepo port.SubmissionRepository,
	eventRepo port.EventRepository,
	notifRepo port.NotificationRepository,
	notifier port.Notifier,
	hier *domain.Hierarchy,
	detector *deadline.Detector,
) SubmissionService {
	return &submissionService{
		subRepo:   subRepo,
		eventRepo: eventRepo,
		notifRepo: notifRepo,
		notifier:  notifier,
		hier:      hier,
		detector:  detector,
		now:       time.Now,
	}
}

// SubmitReport runs the filing pipeline: validate, gate activity requests on
// missed deadlines, insert the record, then best-effort follow-ups (notify
// the reviewer, supersede the prior For Revision record). The steps are not
// transactional; only the insert decides success, and the resolvers
// re-derive a consistent status from whatever records exist afterwards.
func (s *submissionService) SubmitReport(ctx context.Context, view domain.OrgContext, input SubmitReportInput) (*domain.SubmissionRecord, error) {
	title := strings.TrimSpace(input.ActivityTitle)
	if title == "" {
		return nil, domain.ErrMissingActivityTitle
	}
	if !domain.AllowedSubmissionKinds[input.Kind] || input.Kind == domain.KindLetterOfAppeal {
		return nil, domain.ErrInvalidSubmissionKind
	}
	if err := validateLink(input.Link); err != nil {
		return nil, err
	}
	reviewer, ok := s.hier.ReviewerOf(view.Organization)
	if !ok {
		return nil, domain.ErrUnknownOrganization
	}

	if input.Kind == domain.KindActivityRequest {
		blocked, err := s.blockedByMissedReports(ctx, view.Organization)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, domain.ErrBlockedByMissedReport
		}
	}

	record := &domain.SubmissionRecord{
		Organization:  view.Organization,
		Kind:          input.Kind,
		ActivityTitle: title,
		Status:        domain.StatusPending,
		SubmittedTo:   reviewer,
		EventID:       coerceEventID(input.EventID),
		Link:          input.Link,
	}

	log.Printf("submissionService.SubmitReport: %s files %q for %q to %s",
		view.Organization, input.Kind, title, reviewer)

	if _, err := s.subRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}

	sendNotification(ctx, s.notifRepo, s.notifier, &domain.Notification{
		EventID:     record.EventID,
		Title:       fmt.Sprintf("New %s: %s", input.Kind, title),
		Description: fmt.Sprintf("%s filed a %s for %q.", view.Organization, input.Kind, title),
		FromOrg:     view.Organization,
		ToOrg:       reviewer,
	})

	s.supersedePriorRevision(ctx, record)
	return record, nil
}

// Review applies a reviewer decision to a record addressed to the caller.
func (s *submissionService) Review(ctx context.Context, view domain.OrgContext, id int64, action domain.ReviewAction, reason string) (*domain.SubmissionRecord, error) {
	status, ok := action.StatusFor()
	if !ok {
		return nil, domain.ErrInvalidReviewAction
	}

	record, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.SubmittedTo != view.Organization {
		return nil, domain.ErrNotReviewer
	}

	if err := s.subRepo.UpdateStatus(ctx, id, status, reason); err != nil {
		return nil, err
	}
	record.Status = status
	record.Reason = reason

	sendNotification(ctx, s.notifRepo, s.notifier, &domain.Notification{
		EventID:     record.EventID,
		Title:       fmt.Sprintf("%s marked %s", record.Kind, status),
		Description: fmt.Sprintf("%s reviewed your %s for %q: %s. %s", view.Organization, record.Kind, record.ActivityTitle, status, reason),
		FromOrg:     view.Organization,
		ToOrg:       record.Organization,
	})
	return record, nil
}

// Delete removes a record from the ledger. Only the submitter may delete,
// and only once the record is terminal and no longer carries weight upward:
// an approved Letter of Appeal extended a deadline and stays on file.
func (s *submissionService) Delete(ctx context.Context, view domain.OrgContext, id int64) error {
	record, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Organization != view.Organization {
		return domain.ErrForbidden
	}
	if !record.Status.Terminal() {
		return domain.ErrRecordNotDeletable
	}
	if record.Kind == domain.KindLetterOfAppeal && record.Status == domain.StatusApproved {
		return domain.ErrRecordNotDeletable
	}

	log.Printf("submissionService.Delete: %s deletes record %d (%s, %q)",
		view.Organization, id, record.Kind, record.ActivityTitle)
	return s.subRepo.Delete(ctx, id)
}

// ActivityLog returns the records visible to the caller: reduced to the
// latest per (title, kind) by default, or the full history on request.
func (s *submissionService) ActivityLog(ctx context.Context, view domain.OrgContext, full bool) ([]domain.SubmissionRecord, error) {
	records, err := s.subRepo.ListVisibleTo(ctx, view.Organization)
	if err != nil {
		return nil, err
	}
	if full {
		return records, nil
	}
	return ledger.Reduce(ledger.NewSnapshot(records)), nil
}

// Missed returns the caller's missed deadlines as of today.
func (s *submissionService) Missed(ctx context.Context, view domain.OrgContext) ([]domain.MissedDeadline, error) {
	events, records, err := s.fetchComplianceInputs(ctx, view.Organization)
	if err != nil {
		return nil, err
	}
	return s.detector.Missed(events, ledger.NewSnapshot(records), view.Organization, s.now()), nil
}

func (s *submissionService) blockedByMissedReports(ctx context.Context, org string) (bool, error) {
	events, records, err := s.fetchComplianceInputs(ctx, org)
	if err != nil {
		return false, err
	}
	return s.detector.HasMissed(events, ledger.NewSnapshot(records), org, s.now()), nil
}

func (s *submissionService) fetchComplianceInputs(ctx context.Context, org string) ([]domain.Event, []domain.SubmissionRecord, error) {
	events, err := s.eventRepo.ListByTargets(ctx, []string{org})
	if err != nil {
		return nil, nil, fmt.Errorf("fetching events: %w", err)
	}
	records, err := s.subRepo.ListVisibleTo(ctx, org)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching submissions: %w", err)
	}
	return events, records, nil
}

// supersedePriorRevision closes the newest For Revision record under the
// same key after a resubmission. Best effort: the fold treats the old record
// as pending either way, so a failure here only leaves cosmetic history.
func (s *submissionService) supersedePriorRevision(ctx context.Context, record *domain.SubmissionRecord) {
	prior, err := s.subRepo.List(ctx, port.SubmissionFilter{
		Organization:  record.Organization,
		Kind:          record.Kind,
		ActivityTitle: record.ActivityTitle,
		Status:        domain.StatusForRevision,
	})
	if err != nil {
		log.Printf("submissionService.SubmitReport: listing prior revisions: %v", err)
		return
	}
	for _, p := range prior {
		if p.ID == record.ID {
			continue
		}
		if err := s.subRepo.UpdateStatus(ctx, p.ID, domain.StatusRejected, "superseded by resubmission"); err != nil {
			log.Printf("submissionService.SubmitReport: superseding record %d: %v", p.ID, err)
		}
	}
}

// validateLink accepts an empty link or an absolute http(s) URL.
func validateLink(link string) error {
	if link == "" {
		return nil
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrInvalidLink
	}
	return nil
}

// coerceEventID parses an optional event linkage. Invalid UUIDs coerce to
// unlinked rather than failing the submission.
func coerceEventID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
