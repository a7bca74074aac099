package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"orgcomply/internal/appeal"
	"orgcomply/internal/config"
	"orgcomply/internal/deadline"
	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
	"orgcomply/internal/port"
)

// appealContentTypes is the allowlist for appeal documents.
var appealContentTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
}

// SubmitAppealInput is the DTO for letter-of-appeal submissions. Exactly one
// attached document is required.
type SubmitAppealInput struct {
	EventID uuid.UUID
	Kind    domain.ReportKind
	File    multipart.File
	Header  *multipart.FileHeader
}

// AppealService runs the letter-of-appeal saga for a deadline marker.
type AppealService interface {
	SubmitAppeal(ctx context.Context, view domain.OrgContext, input SubmitAppealInput) (*domain.SubmissionRecord, error)
	StateFor(ctx context.Context, view domain.OrgContext, eventID uuid.UUID) (domain.AppealState, error)
	AttachmentLink(ctx context.Context, view domain.OrgContext, recordID int64) (string, error)
}

type appealService struct {
	eventRepo port.EventRepository
	subRepo   port.SubmissionRepository
	notifRepo port.NotificationRepository
	notifier  port.Notifier
	storage   port.ObjectStorage
	machine   *appeal.Machine
	synth     *deadline.Synthesizer
	cfg       *config.S3Config
}

// NewAppealService creates a new AppealService implementation.
func NewAppealService(
	eventRepo port.EventRepository,
	subRepo port.SubmissionRepository,
	notifRepo port.NotificationRepository,
	notifier port.Notifier,
	storage port.ObjectStorage,
	machine *appeal.Machine,
	synth *deadline.Synthesizer,
	cfg *config.S3Config,
) AppealService {
	return &appealService{
		eventRepo: eventRepo,
		subRepo:   subRepo,
		notifRepo: notifRepo,
		notifier:  notifier,
		storage:   storage,
		machine:   machine,
		synth:     synth,
		cfg:       cfg,
	}
}

// SubmitAppeal runs the saga: guard the state machine, upload the document,
// insert the appeal record, notify the reviewer. An upload failure aborts
// before any database write; an insert failure compensates by deleting the
// orphaned upload; the notification never fails the flow.
func (s *appealService) SubmitAppeal(ctx context.Context, view domain.OrgContext, input SubmitAppealInput) (*domain.SubmissionRecord, error) {
	if input.File == nil || input.Header == nil {
		return nil, domain.ErrAttachmentRequired
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	records, err := s.subRepo.ListVisibleTo(ctx, view.Organization)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions: %w", err)
	}
	snap := ledger.NewSnapshot(records)

	markers := s.synth.Synthesize(event, snap, view)
	var marker *domain.DeadlineMarker
	for i := range markers {
		if markers[i].Kind == input.Kind {
			marker = &markers[i]
			break
		}
	}
	if err := s.machine.CanOpen(event, marker, snap, view); err != nil {
		return nil, err
	}
	reviewer, ok := s.machine.Reviewer(view.Organization)
	if !ok {
		return nil, domain.ErrUnknownOrganization
	}

	key, location, err := s.uploadDocument(ctx, view.Organization, input)
	if err != nil {
		return nil, err
	}

	record := &domain.SubmissionRecord{
		Organization:  view.Organization,
		Kind:          domain.KindLetterOfAppeal,
		ActivityTitle: event.Title,
		Status:        domain.StatusPending,
		SubmittedTo:   reviewer,
		EventID:       &event.ID,
		AttachmentURL: location,
		AttachmentKey: key,
	}
	if _, err := s.subRepo.Insert(ctx, record); err != nil {
		// Compensate: remove the orphaned upload before surfacing the error.
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			log.Printf("appealService.SubmitAppeal: compensating delete of %s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("inserting appeal record: %w", err)
	}

	sendNotification(ctx, s.notifRepo, s.notifier, &domain.Notification{
		EventID:     &event.ID,
		Title:       fmt.Sprintf("Letter of Appeal: %s", event.Title),
		Description: fmt.Sprintf("%s appeals the report deadline for %q.", view.Organization, event.Title),
		FromOrg:     view.Organization,
		ToOrg:       reviewer,
	})

	log.Printf("appealService.SubmitAppeal: %s appealed event %s to %s", view.Organization, event.ID, reviewer)
	return record, nil
}

// StateFor derives the appeal state of one event for the caller.
func (s *appealService) StateFor(ctx context.Context, view domain.OrgContext, eventID uuid.UUID) (domain.AppealState, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	records, err := s.subRepo.ListVisibleTo(ctx, view.Organization)
	if err != nil {
		return "", fmt.Errorf("fetching submissions: %w", err)
	}
	return s.machine.StateFor(event, ledger.NewSnapshot(records), view), nil
}

// AttachmentLink returns a short-lived presigned download URL for an appeal
// document. Only the filer and its reviewer may fetch it.
func (s *appealService) AttachmentLink(ctx context.Context, view domain.OrgContext, recordID int64) (string, error) {
	record, err := s.subRepo.GetByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	if record.Organization != view.Organization && record.SubmittedTo != view.Organization {
		return "", domain.ErrForbidden
	}
	if record.Kind != domain.KindLetterOfAppeal || record.AttachmentKey == "" {
		return "", domain.ErrNotFound
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, record.AttachmentKey, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning attachment %s: %w", record.AttachmentKey, err)
	}
	return url, nil
}

// uploadDocument validates and uploads the appeal attachment, returning the
// storage key and public location.
func (s *appealService) uploadDocument(ctx context.Context, org string, input SubmitAppealInput) (key, location string, err error) {
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return "", "", domain.ErrAttachmentRequired
	}

	// Magic-byte content type detection, as with any user upload.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("reading attachment header: %w", err)
	}
	contentType := http.DetectContentType(buf[:n])
	if _, ok := appealContentTypes[contentType]; !ok {
		return "", "", domain.ErrAttachmentRequired
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("seeking attachment: %w", err)
	}

	name := filepath.Base(strings.TrimSpace(input.Header.Filename))
	key = fmt.Sprintf("orgs/%s/appeals/%s/%s", org, uuid.New(), name)

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("appealService.SubmitAppeal: upload failed for %s: %v", key, err)
		return "", "", domain.ErrUploadFailed
	}
	return key, out.Location, nil
}
