package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"orgcomply/internal/deadline"
	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
	"orgcomply/internal/port"
)

// SweepWorker runs a scheduled pass over every organization, flagging report
// deadlines that have lapsed without an accepted submission. Each lapse
// produces a notification to the owing organization and its reviewer.
type SweepWorker struct {
	eventRepo port.EventRepository
	subRepo   port.SubmissionRepository
	notifRepo port.NotificationRepository
	notifier  port.Notifier
	detector  *deadline.Detector
	hier      *domain.Hierarchy
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
}

// NewSweepWorker creates a new SweepWorker. schedule is a standard five-field
// cron expression.
func NewSweepWorker(
	eventRepo port.EventRepository,
	subRepo port.SubmissionRepository,
	notifRepo port.NotificationRepository,
	notifier port.Notifier,
	detector *deadline.Detector,
	hier *domain.Hierarchy,
	schedule string,
) *SweepWorker {
	return &SweepWorker{
		eventRepo: eventRepo,
		subRepo:   subRepo,
		notifRepo: notifRepo,
		notifier:  notifier,
		detector:  detector,
		hier:      hier,
		schedule:  schedule,
		now:       time.Now,
	}
}

// Start registers the sweep on its cron schedule and begins running it.
func (w *SweepWorker) Start(ctx context.Context) error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() { w.Sweep(ctx) }); err != nil {
		return fmt.Errorf("scheduling sweep: %w", err)
	}
	w.cron.Start()
	log.Printf("sweepWorker: started (schedule=%q)", w.schedule)
	return nil
}

// Stop cancels the schedule and waits for an in-flight sweep to finish.
func (w *SweepWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	log.Printf("sweepWorker: shutdown complete")
}

// Sweep runs one pass over all organizations.
func (w *SweepWorker) Sweep(ctx context.Context) {
	today := w.now()

	for _, org := range w.hier.Orgs() {
		if _, ok := w.hier.ReviewerOf(org); !ok {
			// Top of the hierarchy owes no reports.
			continue
		}
		if err := w.sweepOrg(ctx, org, today); err != nil {
			log.Printf("sweepWorker: sweep of %s failed: %v", org, err)
		}
	}
}

func (w *SweepWorker) sweepOrg(ctx context.Context, org string, today time.Time) error {
	events, err := w.eventRepo.ListByTargets(ctx, []string{org})
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	records, err := w.subRepo.ListVisibleTo(ctx, org)
	if err != nil {
		return fmt.Errorf("listing submissions: %w", err)
	}

	missed := w.detector.Missed(events, ledger.NewSnapshot(records), org, today)
	if len(missed) == 0 {
		return nil
	}
	log.Printf("sweepWorker: %s has %d missed deadline(s)", org, len(missed))

	reviewer, _ := w.hier.ReviewerOf(org)
	for _, m := range missed {
		n := &domain.Notification{
			EventID:     &m.Marker.ParentEventID,
			Title:       fmt.Sprintf("Missed deadline: %s", m.ActivityTitle),
			Description: fmt.Sprintf("The %s report for %q is %d day(s) overdue.", m.Marker.Kind, m.ActivityTitle, m.DaysOverdue),
			FromOrg:     reviewer,
			ToOrg:       org,
		}
		sendNotification(ctx, w.notifRepo, w.notifier, n)

		escalation := *n
		escalation.ToOrg = reviewer
		escalation.Description = fmt.Sprintf("%s has not submitted the %s report for %q; it is %d day(s) overdue.",
			org, m.Marker.Kind, m.ActivityTitle, m.DaysOverdue)
		sendNotification(ctx, w.notifRepo, w.notifier, &escalation)
	}
	return nil
}
