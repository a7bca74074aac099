package ledger

import (
	"sort"

	"orgcomply/internal/domain"
)

// Reduce collapses the snapshot to the most recent record per
// (activity title, kind) group: the "latest status wins" view used for
// display and for missed-deadline checks. Superseded For Revision history is
// intentionally dropped here; the full history stays queryable from the
// snapshot itself. Ties on SubmittedAt are broken by highest record ID so
// the result is deterministic even for near-simultaneous inserts.
func Reduce(s *Snapshot) []domain.SubmissionRecord {
	type key struct {
		title string
		kind  domain.SubmissionKind
	}
	latest := make(map[key]domain.SubmissionRecord)
	for _, r := range s.records {
		k := key{r.ActivityTitle, r.Kind}
		cur, ok := latest[k]
		if !ok || newer(r, cur) {
			latest[k] = r
		}
	}

	out := make([]domain.SubmissionRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Latest returns the most recent record an organization filed for one
// (title, kind) key, if any. Scoped to the filer so records a reviewer merely
// received never stand in for its own filings.
func Latest(s *Snapshot, title string, kind domain.SubmissionKind, org string) (domain.SubmissionRecord, bool) {
	var best domain.SubmissionRecord
	found := false
	for _, r := range s.records {
		if r.ActivityTitle != title || r.Kind != kind || r.Organization != org {
			continue
		}
		if !found || newer(r, best) {
			best = r
			found = true
		}
	}
	return best, found
}

func newer(a, b domain.SubmissionRecord) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	return a.ID > b.ID
}
