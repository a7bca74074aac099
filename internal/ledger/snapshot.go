// Package ledger provides a read-only view over the append-only submission
// records and the pure fold/reduce rules that resolve them into statuses.
// Records are joined to events by exact activity-title equality; two events
// with the same title are indistinguishable here. That mirrors how the forms
// are filed and is a known limitation, not something to repair with id joins.
package ledger

import (
	"orgcomply/internal/domain"
)

// Snapshot is an immutable view over the submission records fetched at the
// start of a resolution pass. Resolvers never mutate it; a fresh snapshot is
// taken per pass.
type Snapshot struct {
	records []domain.SubmissionRecord
}

// NewSnapshot wraps a fetched record set. The slice is not copied; callers
// must not modify it after handing it over.
func NewSnapshot(records []domain.SubmissionRecord) *Snapshot {
	return &Snapshot{records: records}
}

// ForKey returns all records matching (activity title, kind, organization),
// the fold key of the status resolver.
func (s *Snapshot) ForKey(title string, kind domain.SubmissionKind, org string) []domain.SubmissionRecord {
	var out []domain.SubmissionRecord
	for _, r := range s.records {
		if r.ActivityTitle == title && r.Kind == kind && r.Organization == org {
			out = append(out, r)
		}
	}
	return out
}

// SubmittedUpward returns records for (title, kind) filed to reviewer by any
// organization in orgs.
func (s *Snapshot) SubmittedUpward(title string, kind domain.SubmissionKind, reviewer string, orgs []string) []domain.SubmissionRecord {
	member := make(map[string]bool, len(orgs))
	for _, o := range orgs {
		member[o] = true
	}
	var out []domain.SubmissionRecord
	for _, r := range s.records {
		if r.ActivityTitle == title && r.Kind == kind && r.SubmittedTo == reviewer && member[r.Organization] {
			out = append(out, r)
		}
	}
	return out
}
