package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgcomply/internal/domain"
	"orgcomply/internal/ledger"
)

func TestMissed_PastDueWithNoFiling(t *testing.T) {
	detector := NewDetector(NewSynthesizer(testPolicy(), testHierarchy))
	e := sportsFest("LSG-Engineering")

	// The day after the liquidation deadline (2024-03-08): both reports missed.
	today := date(2024, time.March, 9)
	missed := detector.Missed([]domain.Event{*e}, ledger.NewSnapshot(nil), "LSG-Engineering", today)
	require.Len(t, missed, 2)

	assert.Equal(t, domain.ReportAccomplishment, missed[0].Marker.Kind)
	assert.Equal(t, 3, missed[0].DaysOverdue)
	assert.Equal(t, domain.ReportLiquidation, missed[1].Marker.Kind)
	assert.Equal(t, 1, missed[1].DaysOverdue)
	assert.True(t, detector.HasMissed([]domain.Event{*e}, ledger.NewSnapshot(nil), "LSG-Engineering", today))
}

func TestMissed_DueDateItselfIsNotMissed(t *testing.T) {
	detector := NewDetector(NewSynthesizer(testPolicy(), testHierarchy))
	e := sportsFest("LSG-Engineering")

	// On the accomplishment due date the deadline is not yet missed.
	today := date(2024, time.March, 6)
	missed := detector.Missed([]domain.Event{*e}, ledger.NewSnapshot(nil), "LSG-Engineering", today)
	assert.Empty(t, missed)
}

func TestMissed_AnyFilingClears(t *testing.T) {
	detector := NewDetector(NewSynthesizer(testPolicy(), testHierarchy))
	e := sportsFest("LSG-Engineering")
	today := date(2024, time.March, 9)

	for _, status := range []domain.SubmissionStatus{domain.StatusPending, domain.StatusRejected} {
		snap := ledger.NewSnapshot([]domain.SubmissionRecord{{
			ID:            1,
			Organization:  "LSG-Engineering",
			Kind:          domain.KindAccomplishment,
			ActivityTitle: "Sports Fest",
			Status:        status,
			SubmittedTo:   "USG",
		}})
		missed := detector.Missed([]domain.Event{*e}, snap, "LSG-Engineering", today)
		require.Len(t, missed, 1, "status %s", status)
		assert.Equal(t, domain.ReportLiquidation, missed[0].Marker.Kind)
	}
}

func TestMissed_ForRevisionDoesNotClear(t *testing.T) {
	detector := NewDetector(NewSynthesizer(testPolicy(), testHierarchy))
	e := sportsFest("LSG-Engineering")
	today := date(2024, time.March, 9)

	snap := ledger.NewSnapshot([]domain.SubmissionRecord{{
		ID:            1,
		Organization:  "LSG-Engineering",
		Kind:          domain.KindAccomplishment,
		ActivityTitle: "Sports Fest",
		Status:        domain.StatusForRevision,
		SubmittedTo:   "USG",
	}})
	missed := detector.Missed([]domain.Event{*e}, snap, "LSG-Engineering", today)
	require.Len(t, missed, 2)
}

func TestMissed_AnotherOrgsFilingDoesNotClear(t *testing.T) {
	detector := NewDetector(NewSynthesizer(testPolicy(), testHierarchy))
	e := sportsFest("LSG-Engineering")
	today := date(2024, time.March, 9)

	// A sibling filed under the same free-text title; the owing org still has
	// nothing on the ledger.
	snap := ledger.NewSnapshot([]domain.SubmissionRecord{{
		ID:            1,
		Organization:  "LSG-Business",
		Kind:          domain.KindAccomplishment,
		ActivityTitle: "Sports Fest",
		Status:        domain.StatusPending,
		SubmittedTo:   "USG",
	}})
	missed := detector.Missed([]domain.Event{*e}, snap, "LSG-Engineering", today)
	require.Len(t, missed, 2)
}

func TestMissed_OnlyOwnEvents(t *testing.T) {
	detector := NewDetector(NewSynthesizer(testPolicy(), testHierarchy))
	e := sportsFest("LSG-Business")
	today := date(2024, time.March, 9)

	missed := detector.Missed([]domain.Event{*e}, ledger.NewSnapshot(nil), "LSG-Engineering", today)
	assert.Empty(t, missed)
}
