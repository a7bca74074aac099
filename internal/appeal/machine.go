// Package appeal governs the letter-of-appeal flow for a deadline marker.
// The state is derived per (event, organization) from appeal records on the
// ledger; nothing here is persisted as its own row.
package appeal

import (
	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
)

// Machine derives appeal states and guards the transitions a filing
// organization may take.
type Machine struct {
	hier             *domain.Hierarchy
	rearmOnRejection bool
}

// NewMachine creates a Machine. rearmOnRejection controls the policy for
// rejected appeals: when true a rejection simply re-arms the original
// deadline (the appeal record folds as non-approved and a new appeal may be
// filed); when false the rejected appeal holds the form closed until the
// record is explicitly deleted.
func NewMachine(hier *domain.Hierarchy, rearmOnRejection bool) *Machine {
	return &Machine{hier: hier, rearmOnRejection: rearmOnRejection}
}

// StateFor derives the appeal state of event e as seen by view. The owning
// organization sees the progress of its own appeal; the reviewing
// organization sees a read-only notice of whether a subordinate has filed.
func (m *Machine) StateFor(e *domain.Event, snap *ledger.Snapshot, view domain.OrgContext) domain.AppealState {
	if view.Organization == e.TargetOrganization {
		return m.ownState(e, snap, view.Organization)
	}
	if m.hier.Reviews(view.Organization, e.TargetOrganization) {
		if len(m.appealRecords(e, snap, e.TargetOrganization)) > 0 {
			return domain.AppealChildSubmitted
		}
		return domain.AppealChildNotSubmitted
	}
	return domain.AppealNone
}

func (m *Machine) ownState(e *domain.Event, snap *ledger.Snapshot, org string) domain.AppealState {
	records := m.appealRecords(e, snap, org)
	if len(records) == 0 {
		return domain.AppealNone
	}

	rejected := false
	for _, r := range records {
		switch r.Status {
		case domain.StatusApproved:
			return domain.AppealOwnApproved
		case domain.StatusPending, domain.StatusForRevision:
			return domain.AppealOwnPending
		case domain.StatusRejected:
			rejected = true
		}
	}

	// Reviewer approval may also be observed indirectly: the override is set
	// while the appeal record itself was never flipped to Approved.
	if e.AccomplishmentOverride != nil || e.LiquidationOverride != nil {
		return domain.AppealOwnApproved
	}
	if rejected && !m.rearmOnRejection {
		return domain.AppealRejectedHeld
	}
	return domain.AppealNone
}

// CanOpen reports whether org may open the appeal form for the given marker.
// Only the marker's own target organization may appeal, the underlying
// requirement must still be unsatisfied (a suppressed marker means there is
// nothing left to appeal), and no live or held appeal may be on file.
func (m *Machine) CanOpen(e *domain.Event, marker *domain.DeadlineMarker, snap *ledger.Snapshot, view domain.OrgContext) error {
	if marker == nil {
		return domain.ErrDeadlineSatisfied
	}
	if view.Organization != marker.TargetOrganization {
		return domain.ErrNotDeadlineOwner
	}
	if _, ok := m.hier.ReviewerOf(view.Organization); !ok {
		return domain.ErrUnknownOrganization
	}
	switch m.ownState(e, snap, view.Organization) {
	case domain.AppealOwnPending, domain.AppealOwnApproved:
		return domain.ErrAppealAlreadyFiled
	case domain.AppealRejectedHeld:
		return domain.ErrAppealClosed
	}
	return nil
}

// Reviewer returns the organization an appeal by org is submitted to.
func (m *Machine) Reviewer(org string) (string, bool) {
	return m.hier.ReviewerOf(org)
}

// appealRecords returns org's Letter of Appeal records joined to e by
// activity title, further narrowed by event id when the record carries one.
func (m *Machine) appealRecords(e *domain.Event, snap *ledger.Snapshot, org string) []domain.SubmissionRecord {
	var out []domain.SubmissionRecord
	for _, r := range snap.ForKey(e.Title, domain.KindLetterOfAppeal, org) {
		if r.EventID != nil && *r.EventID != e.ID {
			continue
		}
		out = append(out, r)
	}
	return out
}
