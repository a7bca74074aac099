package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"orgcomply/internal/domain"
	"orgcomply/mocks"
)

func newSweepFixture() (*SweepWorker, *mocks.MockEventRepo, *mocks.MockSubmissionRepo, *mocks.MockNotificationRepo, *mocks.MockNotifier) {
	eventRepo := new(mocks.MockEventRepo)
	subRepo := new(mocks.MockSubmissionRepo)
	notifRepo := new(mocks.MockNotificationRepo)
	notifier := new(mocks.MockNotifier)
	w := NewSweepWorker(eventRepo, subRepo, notifRepo, notifier, testDetector(), testHierarchy, "15 0 * * *")
	w.now = func() time.Time { return time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC) }
	return w, eventRepo, subRepo, notifRepo, notifier
}

func TestSweep_NotifiesOwingOrgAndReviewer(t *testing.T) {
	w, eventRepo, subRepo, notifRepo, notifier := newSweepFixture()

	// Only LSG-Engineering owes anything; the rest are clean.
	for _, org := range []string{"LSG-Business", "USG"} {
		eventRepo.On("ListByTargets", mock.Anything, []string{org}).Return([]domain.Event{}, nil)
		subRepo.On("ListVisibleTo", mock.Anything, org).Return([]domain.SubmissionRecord{}, nil)
	}
	eventRepo.On("ListByTargets", mock.Anything, []string{"LSG-Engineering"}).
		Return([]domain.Event{overdueEvent("LSG-Engineering")}, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{}, nil)

	notifRepo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(int64(1), nil)
	notifier.On("Notify", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	w.Sweep(context.Background())

	notifier.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.ToOrg == "LSG-Engineering"
	}))
	notifier.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.ToOrg == "USG"
	}))
	notifier.AssertNumberOfCalls(t, "Notify", 2)

	// OSAS sits at the top and owes no reports, so it is never swept.
	eventRepo.AssertNotCalled(t, "ListByTargets", mock.Anything, []string{"OSAS"})
}

func TestSweep_NothingMissedSendsNothing(t *testing.T) {
	w, eventRepo, subRepo, _, notifier := newSweepFixture()

	for _, org := range []string{"LSG-Business", "LSG-Engineering", "USG"} {
		eventRepo.On("ListByTargets", mock.Anything, []string{org}).Return([]domain.Event{}, nil)
		subRepo.On("ListVisibleTo", mock.Anything, org).Return([]domain.SubmissionRecord{}, nil)
	}

	w.Sweep(context.Background())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestSweepWorker_RejectsBadSchedule(t *testing.T) {
	w := NewSweepWorker(new(mocks.MockEventRepo), new(mocks.MockSubmissionRepo), new(mocks.MockNotificationRepo), new(mocks.MockNotifier), testDetector(), testHierarchy, "not a schedule")
	assert.Error(t, w.Start(context.Background()))
}
