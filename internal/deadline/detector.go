package deadline

import (
	"time"

	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
	"orgcomply/internal/workday"
)

// Detector cross-references synthesized deadlines against a reference date
// and the ledger to flag non-compliance.
type Detector struct {
	synth *Synthesizer
}

// NewDetector creates a Detector over the given synthesizer.
func NewDetector(synth *Synthesizer) *Detector {
	return &Detector{synth: synth}
}

// Missed returns every deadline of org's own events that is past due as of
// today (date-only comparison) with no qualifying filing on the ledger. A
// filing qualifies when org's latest record for (event title, report kind) has
// any status other than For Revision; a marker that survived synthesis is by
// definition not approved, so a Pending or Rejected filing still counts as
// "something was filed" while a For Revision record does not.
func (d *Detector) Missed(events []domain.Event, snap *ledger.Snapshot, org string, today time.Time) []domain.MissedDeadline {
	view := domain.OrgContext{Organization: org}
	var missed []domain.MissedDeadline
	for i := range events {
		e := &events[i]
		if e.TargetOrganization != org {
			continue
		}
		for _, m := range d.synth.Synthesize(e, snap, view) {
			if !dateBefore(m.DueDate, today) {
				continue
			}
			if latest, ok := ledger.Latest(snap, e.Title, m.Kind.SubmissionKind(), org); ok && latest.Status != domain.StatusForRevision {
				continue
			}
			missed = append(missed, domain.MissedDeadline{
				Marker:        m,
				ActivityTitle: e.Title,
				DaysOverdue:   daysBetween(m.DueDate, today),
			})
		}
	}
	return missed
}

// HasMissed reports whether org has at least one missed deadline. Used as a
// hard gate: organizations with missed reports may not file new activity
// requests until the backlog is cleared.
func (d *Detector) HasMissed(events []domain.Event, snap *ledger.Snapshot, org string, today time.Time) bool {
	return len(d.Missed(events, snap, org, today)) > 0
}

func daysBetween(from, to time.Time) int {
	return int(workday.Date(to).Sub(workday.Date(from)).Hours() / 24)
}
