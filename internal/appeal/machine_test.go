package appeal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
)

var testHierarchy = domain.NewHierarchy(map[string]string{
	"LSG-Engineering": "USG",
	"LSG-Business":    "USG",
	"USG":             "OSAS",
})

func sportsFest() *domain.Event {
	end := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:                    uuid.New(),
		Title:                 "Sports Fest",
		EndDate:               &end,
		TargetOrganization:    "LSG-Engineering",
		RequireAccomplishment: true,
	}
}

func appealRec(id int64, e *domain.Event, status domain.SubmissionStatus) domain.SubmissionRecord {
	return domain.SubmissionRecord{
		ID:            id,
		Organization:  "LSG-Engineering",
		Kind:          domain.KindLetterOfAppeal,
		ActivityTitle: e.Title,
		Status:        status,
		SubmittedTo:   "USG",
		EventID:       &e.ID,
	}
}

func view(org string) domain.OrgContext {
	return domain.OrgContext{Organization: org}
}

func TestStateFor_OwnStates(t *testing.T) {
	m := NewMachine(testHierarchy, true)
	e := sportsFest()

	cases := []struct {
		name    string
		records []domain.SubmissionRecord
		want    domain.AppealState
	}{
		{"no appeal", nil, domain.AppealNone},
		{"pending", []domain.SubmissionRecord{appealRec(1, e, domain.StatusPending)}, domain.AppealOwnPending},
		{"for revision counts as live", []domain.SubmissionRecord{appealRec(1, e, domain.StatusForRevision)}, domain.AppealOwnPending},
		{"approved", []domain.SubmissionRecord{appealRec(1, e, domain.StatusApproved)}, domain.AppealOwnApproved},
		{"rejected re-arms", []domain.SubmissionRecord{appealRec(1, e, domain.StatusRejected)}, domain.AppealNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.StateFor(e, ledger.NewSnapshot(tc.records), view("LSG-Engineering"))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStateFor_RejectedHeldWhenRearmDisabled(t *testing.T) {
	m := NewMachine(testHierarchy, false)
	e := sportsFest()
	snap := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, e, domain.StatusRejected)})

	assert.Equal(t, domain.AppealRejectedHeld, m.StateFor(e, snap, view("LSG-Engineering")))
}

func TestStateFor_OverrideImpliesApproval(t *testing.T) {
	m := NewMachine(testHierarchy, true)
	e := sportsFest()
	pinned := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	e.AccomplishmentOverride = &pinned

	// An appeal was filed and then rejected on paper, but the reviewer set
	// the override anyway: the override is the ground truth.
	snap := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, e, domain.StatusRejected)})
	assert.Equal(t, domain.AppealOwnApproved, m.StateFor(e, snap, view("LSG-Engineering")))

	// With no appeal record at all the override alone says nothing.
	assert.Equal(t, domain.AppealNone, m.StateFor(e, ledger.NewSnapshot(nil), view("LSG-Engineering")))
}

func TestStateFor_ReviewerSeesChildStates(t *testing.T) {
	m := NewMachine(testHierarchy, true)
	e := sportsFest()

	assert.Equal(t, domain.AppealChildNotSubmitted, m.StateFor(e, ledger.NewSnapshot(nil), view("USG")))

	snap := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, e, domain.StatusPending)})
	assert.Equal(t, domain.AppealChildSubmitted, m.StateFor(e, snap, view("USG")))

	// Unrelated organizations see nothing.
	assert.Equal(t, domain.AppealNone, m.StateFor(e, snap, view("LSG-Business")))
	assert.Equal(t, domain.AppealNone, m.StateFor(e, snap, view("OSAS")))
}

func TestStateFor_RecordLinkedToOtherEventIgnored(t *testing.T) {
	m := NewMachine(testHierarchy, true)
	e := sportsFest()

	// Same title, different linked event: a different run of the activity.
	other := sportsFest()
	snap := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, other, domain.StatusPending)})

	assert.Equal(t, domain.AppealNone, m.StateFor(e, snap, view("LSG-Engineering")))
}

func TestCanOpen(t *testing.T) {
	m := NewMachine(testHierarchy, true)
	e := sportsFest()
	marker := &domain.DeadlineMarker{
		Kind:               domain.ReportAccomplishment,
		TargetOrganization: "LSG-Engineering",
	}

	assert.NoError(t, m.CanOpen(e, marker, ledger.NewSnapshot(nil), view("LSG-Engineering")))

	// A suppressed marker means the requirement is already satisfied.
	assert.ErrorIs(t, m.CanOpen(e, nil, ledger.NewSnapshot(nil), view("LSG-Engineering")), domain.ErrDeadlineSatisfied)

	// Only the owing organization may appeal.
	assert.ErrorIs(t, m.CanOpen(e, marker, ledger.NewSnapshot(nil), view("USG")), domain.ErrNotDeadlineOwner)

	// A live appeal blocks a second one.
	live := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, e, domain.StatusPending)})
	assert.ErrorIs(t, m.CanOpen(e, marker, live, view("LSG-Engineering")), domain.ErrAppealAlreadyFiled)

	granted := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, e, domain.StatusApproved)})
	assert.ErrorIs(t, m.CanOpen(e, marker, granted, view("LSG-Engineering")), domain.ErrAppealAlreadyFiled)
}

func TestCanOpen_RejectedHeldBlocksWhenRearmDisabled(t *testing.T) {
	e := sportsFest()
	marker := &domain.DeadlineMarker{
		Kind:               domain.ReportAccomplishment,
		TargetOrganization: "LSG-Engineering",
	}
	rejected := ledger.NewSnapshot([]domain.SubmissionRecord{appealRec(1, e, domain.StatusRejected)})

	held := NewMachine(testHierarchy, false)
	assert.ErrorIs(t, held.CanOpen(e, marker, rejected, view("LSG-Engineering")), domain.ErrAppealClosed)

	rearmed := NewMachine(testHierarchy, true)
	assert.NoError(t, rearmed.CanOpen(e, marker, rejected, view("LSG-Engineering")))
}
