package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

// EventService exposes the activity calendar events and the reviewer-side
// deadline override.
type EventService interface {
	List(ctx context.Context, view domain.OrgContext, from, to time.Time) ([]domain.Event, error)
	GetByID(ctx context.Context, view domain.OrgContext, id uuid.UUID) (*domain.Event, error)
	SetDeadlineOverride(ctx context.Context, view domain.OrgContext, id uuid.UUID, kind domain.ReportKind, date *time.Time) (*domain.Event, error)
}

type eventService struct {
	eventRepo port.EventRepository
	notifRepo port.NotificationRepository
	notifier  port.Notifier
	hier      *domain.Hierarchy
}

// NewEventService creates a new EventService implementation.
func NewEventService(
	eventRepo port.EventRepository,
	notifRepo port.NotificationRepository,
	notifier port.Notifier,
	hier *domain.Hierarchy,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		notifRepo: notifRepo,
		notifier:  notifier,
		hier:      hier,
	}
}

// List returns events targeting the caller or any of its subordinates,
// restricted to those starting within [from, to].
func (s *eventService) List(ctx context.Context, view domain.OrgContext, from, to time.Time) ([]domain.Event, error) {
	events, err := s.eventRepo.ListByTargets(ctx, s.hier.VisibleTargets(view.Organization))
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	filtered := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if inRange(e.StartDate, from, to) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (s *eventService) GetByID(ctx context.Context, view domain.OrgContext, id uuid.UUID) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.TargetOrganization != view.Organization && !s.hier.Reviews(view.Organization, event.TargetOrganization) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// SetDeadlineOverride pins (or clears, with a nil date) the deadline for one
// report kind of an event. Only the reviewer of the event's target
// organization may do this; the target is told about the change.
func (s *eventService) SetDeadlineOverride(ctx context.Context, view domain.OrgContext, id uuid.UUID, kind domain.ReportKind, date *time.Time) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.hier.Reviews(view.Organization, event.TargetOrganization) {
		return nil, domain.ErrNotReviewer
	}

	if err := s.eventRepo.SetDeadlineOverride(ctx, id, kind, date); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("The %s deadline for %q was cleared by %s.", kind, event.Title, view.Organization)
	if date != nil {
		desc = fmt.Sprintf("The %s deadline for %q was moved to %s by %s.",
			kind, event.Title, date.Format("January 2, 2006"), view.Organization)
	}
	sendNotification(ctx, s.notifRepo, s.notifier, &domain.Notification{
		EventID:     &event.ID,
		Title:       fmt.Sprintf("Deadline updated: %s", event.Title),
		Description: desc,
		FromOrg:     view.Organization,
		ToOrg:       event.TargetOrganization,
	})

	log.Printf("eventService.SetDeadlineOverride: %s set %s override on event %s", view.Organization, kind, id)
	return s.eventRepo.GetByID(ctx, id)
}
