// Package deadline synthesizes deadline markers from source events and flags
// missed deadlines. Markers are derived values: recomputed in full on every
// pass, never persisted, never mutated in place.
package deadline

import (
	"time"

	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
	"orgcomply/internal/workday"
)

// Policy holds the per-deployment deadline rules. The working-day offsets
// are configuration, not constants baked into the arithmetic.
type Policy struct {
	AccomplishmentDays     int
	LiquidationDays        int
	RearmOnAppealRejection bool
}

// Days returns the working-day offset for a report kind.
func (p Policy) Days(kind domain.ReportKind) int {
	if kind == domain.ReportLiquidation {
		return p.LiquidationDays
	}
	return p.AccomplishmentDays
}

// Synthesizer derives deadline markers for events as seen by one viewing
// organization.
type Synthesizer struct {
	policy Policy
	hier   *domain.Hierarchy
}

// NewSynthesizer creates a Synthesizer with the given policy and hierarchy.
func NewSynthesizer(policy Policy, hier *domain.Hierarchy) *Synthesizer {
	return &Synthesizer{policy: policy, hier: hier}
}

// Policy returns the synthesizer's deadline policy.
func (s *Synthesizer) Policy() Policy {
	return s.policy
}

var reportKinds = []domain.ReportKind{domain.ReportAccomplishment, domain.ReportLiquidation}

// Synthesize emits zero or one marker per required report kind of e, for the
// organization in view. Rules, per kind:
//
//   - events whose target is outside view's visible set produce nothing;
//   - a missing end date produces nothing (no base to compute from);
//   - a stored override always wins over the policy-computed date;
//   - an approved submission, own or escalated, retires the marker;
//   - otherwise the marker carries pending_review when a subordinate of the
//     viewer has filed and awaits the viewer's review, else the target
//     organization's own folded status.
func (s *Synthesizer) Synthesize(e *domain.Event, snap *ledger.Snapshot, view domain.OrgContext) []domain.DeadlineMarker {
	if !s.visible(e.TargetOrganization, view.Organization) {
		return nil
	}

	var markers []domain.DeadlineMarker
	for _, kind := range reportKinds {
		if !e.Requires(kind) {
			continue
		}
		m, ok := s.synthesizeKind(e, kind, snap, view)
		if ok {
			markers = append(markers, m)
		}
	}
	return markers
}

func (s *Synthesizer) synthesizeKind(e *domain.Event, kind domain.ReportKind, snap *ledger.Snapshot, view domain.OrgContext) (domain.DeadlineMarker, bool) {
	if e.EndDate == nil {
		return domain.DeadlineMarker{}, false
	}

	due := workday.DeadlineDate(*e.EndDate, s.policy.Days(kind))
	hasOverride := false
	if override := e.Override(kind); override != nil {
		due = workday.Date(*override)
		hasOverride = true
	}

	subKind := kind.SubmissionKind()
	own := ledger.Resolve(snap, e.Title, subKind, e.TargetOrganization)
	escalated := ledger.ResolveEscalated(snap, s.hier, e.Title, subKind, view.Organization)

	if own == domain.ResolvedApproved || escalated == domain.ResolvedApproved {
		return domain.DeadlineMarker{}, false
	}

	status := domain.MarkerStatus(own)
	if escalated == domain.ResolvedPending {
		status = domain.MarkerPendingReview
	}

	return domain.DeadlineMarker{
		ID:                 domain.MarkerID(e.ID, kind),
		Kind:               kind,
		Title:              e.Title,
		DueDate:            due,
		ParentEventID:      e.ID,
		TargetOrganization: e.TargetOrganization,
		HasOverride:        hasOverride,
		SubmissionStatus:   status,
		AppealState:        domain.AppealNone,
	}, true
}

// visible reports whether viewer may see deadlines targeting target: its own
// and those of every organization it reviews.
func (s *Synthesizer) visible(target, viewer string) bool {
	if target == viewer {
		return true
	}
	return s.hier.Reviews(viewer, target)
}

// dateBefore reports whether a falls strictly before b, comparing calendar
// dates only.
func dateBefore(a, b time.Time) bool {
	return workday.Date(a).Before(workday.Date(b))
}
