package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orgcomply/internal/domain"
	"orgcomply/mocks"
)

func newEventFixture() (EventService, *mocks.MockEventRepo, *mocks.MockNotificationRepo, *mocks.MockNotifier) {
	eventRepo := new(mocks.MockEventRepo)
	notifRepo := new(mocks.MockNotificationRepo)
	notifier := new(mocks.MockNotifier)
	svc := NewEventService(eventRepo, notifRepo, notifier, testHierarchy)
	return svc, eventRepo, notifRepo, notifier
}

func TestEventList_FiltersByRange(t *testing.T) {
	svc, eventRepo, _, _ := newEventFixture()
	inside := overdueEvent("LSG-Engineering")
	inside.StartDate = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	outside := overdueEvent("LSG-Engineering")
	outside.StartDate = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	eventRepo.On("ListByTargets", mock.Anything, []string{"LSG-Engineering"}).
		Return([]domain.Event{inside, outside}, nil)

	got, err := svc.List(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"},
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestEventGetByID_Visibility(t *testing.T) {
	svc, eventRepo, _, _ := newEventFixture()
	e := overdueEvent("LSG-Engineering")
	eventRepo.On("GetByID", mock.Anything, e.ID).Return(&e, nil)

	// Owner and reviewer see it.
	_, err := svc.GetByID(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, e.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(context.Background(), domain.OrgContext{Organization: "USG"}, e.ID)
	assert.NoError(t, err)

	// A sibling does not.
	_, err = svc.GetByID(context.Background(), domain.OrgContext{Organization: "LSG-Business"}, e.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSetDeadlineOverride_ReviewerOnly(t *testing.T) {
	svc, eventRepo, _, _ := newEventFixture()
	e := overdueEvent("LSG-Engineering")
	eventRepo.On("GetByID", mock.Anything, e.ID).Return(&e, nil)

	pinned := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	// The owner itself may not move its own deadline.
	_, err := svc.SetDeadlineOverride(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, e.ID, domain.ReportAccomplishment, &pinned)
	assert.ErrorIs(t, err, domain.ErrNotReviewer)

	// Neither may the grandparent tier.
	_, err = svc.SetDeadlineOverride(context.Background(), domain.OrgContext{Organization: "OSAS"}, e.ID, domain.ReportAccomplishment, &pinned)
	assert.ErrorIs(t, err, domain.ErrNotReviewer)
}

func TestSetDeadlineOverride_SetAndClear(t *testing.T) {
	svc, eventRepo, notifRepo, notifier := newEventFixture()
	e := overdueEvent("LSG-Engineering")
	pinned := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(&e, nil)
	eventRepo.On("SetDeadlineOverride", mock.Anything, e.ID, domain.ReportAccomplishment, &pinned).Return(nil)
	eventRepo.On("SetDeadlineOverride", mock.Anything, e.ID, domain.ReportAccomplishment, (*time.Time)(nil)).Return(nil)
	notifRepo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(int64(1), nil)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.ToOrg == "LSG-Engineering" && n.FromOrg == "USG"
	})).Return(nil)

	_, err := svc.SetDeadlineOverride(context.Background(), domain.OrgContext{Organization: "USG"}, e.ID, domain.ReportAccomplishment, &pinned)
	require.NoError(t, err)

	_, err = svc.SetDeadlineOverride(context.Background(), domain.OrgContext{Organization: "USG"}, e.ID, domain.ReportAccomplishment, nil)
	require.NoError(t, err)
	eventRepo.AssertExpectations(t)
}

func TestSetDeadlineOverride_UnknownEvent(t *testing.T) {
	svc, eventRepo, _, _ := newEventFixture()
	id := uuid.New()
	eventRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := svc.SetDeadlineOverride(context.Background(), domain.OrgContext{Organization: "USG"}, id, domain.ReportAccomplishment, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
