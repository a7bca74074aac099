package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"orgcomply/internal/appeal"
	"orgcomply/internal/deadline"
	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
	"orgcomply/internal/port"
	"orgcomply/internal/workday"
)

// CalendarService produces the merged per-date view of real events and
// synthesized deadline markers consumed by the presentation collaborator.
type CalendarService interface {
	Schedule(ctx context.Context, view domain.OrgContext, from, to time.Time) ([]domain.CalendarDay, error)
}

type calendarService struct {
	eventRepo port.EventRepository
	subRepo   port.SubmissionRepository
	hier      *domain.Hierarchy
	synth     *deadline.Synthesizer
	machine   *appeal.Machine
}

// NewCalendarService creates a new CalendarService implementation.
func NewCalendarService(
	eventRepo port.EventRepository,
	subRepo port.SubmissionRepository,
	hier *domain.Hierarchy,
	synth *deadline.Synthesizer,
	machine *appeal.Machine,
) CalendarService {
	return &calendarService{
		eventRepo: eventRepo,
		subRepo:   subRepo,
		hier:      hier,
		synth:     synth,
		machine:   machine,
	}
}

// Schedule fetches one snapshot of events and ledger records, then derives
// the calendar for [from, to] inclusive. Everything downstream of the fetch
// is a pure computation over that snapshot; the fetched collections are
// never mutated.
func (s *calendarService) Schedule(ctx context.Context, view domain.OrgContext, from, to time.Time) ([]domain.CalendarDay, error) {
	events, err := s.eventRepo.ListByTargets(ctx, s.hier.VisibleTargets(view.Organization))
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	records, err := s.subRepo.ListVisibleTo(ctx, view.Organization)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions: %w", err)
	}
	snap := ledger.NewSnapshot(records)

	from, to = workday.Date(from), workday.Date(to)
	days := make(map[time.Time]*domain.CalendarDay)
	day := func(date time.Time) *domain.CalendarDay {
		date = workday.Date(date)
		d, ok := days[date]
		if !ok {
			d = &domain.CalendarDay{Date: date}
			days[date] = d
		}
		return d
	}

	for i := range events {
		e := events[i]
		if inRange(workday.Date(e.StartDate), from, to) {
			d := day(e.StartDate)
			d.Events = append(d.Events, e)
		}

		for _, m := range s.synth.Synthesize(&e, snap, view) {
			if !inRange(m.DueDate, from, to) {
				continue
			}
			m.AppealState = s.machine.StateFor(&e, snap, view)
			d := day(m.DueDate)
			d.Markers = append(d.Markers, m)
		}
	}

	out := make([]domain.CalendarDay, 0, len(days))
	for _, d := range days {
		sort.Slice(d.Markers, func(i, j int) bool { return d.Markers[i].ID < d.Markers[j].ID })
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}
