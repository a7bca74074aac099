package ledger

import "orgcomply/internal/domain"

// Resolve folds every record for (activity title, kind, organization) into a
// single status. Approval is monotonic and wins over any concurrent pending
// or for-revision record: once a key is approved it never regresses, no
// matter what else is (or later gets) on file. Commit order is irrelevant;
// only the existence of a status among the records matters.
func Resolve(s *Snapshot, title string, kind domain.SubmissionKind, org string) domain.ResolvedStatus {
	return fold(s.ForKey(title, kind, org))
}

// ResolveEscalated resolves the status of the tier directly below the
// viewing organization: records for (title, kind) filed up to viewingOrg by
// any of its subordinates. A reviewing organization thereby sees "a
// subordinate has filed" without knowing which one. Organizations with no
// subordinates always resolve to no_submission.
func ResolveEscalated(s *Snapshot, h *domain.Hierarchy, title string, kind domain.SubmissionKind, viewingOrg string) domain.ResolvedStatus {
	subs := h.Subordinates(viewingOrg)
	if len(subs) == 0 {
		return domain.ResolvedNone
	}
	return fold(s.SubmittedUpward(title, kind, viewingOrg, subs))
}

// fold applies the approval-wins rule: approved if any record is Approved,
// else pending if any is Pending or For Revision, else no_submission.
// Rejected records fold as no_submission.
func fold(records []domain.SubmissionRecord) domain.ResolvedStatus {
	status := domain.ResolvedNone
	for _, r := range records {
		switch r.Status {
		case domain.StatusApproved:
			return domain.ResolvedApproved
		case domain.StatusPending, domain.StatusForRevision:
			status = domain.ResolvedPending
		}
	}
	return status
}
