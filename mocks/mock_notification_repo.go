package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"orgcomply/internal/domain"
)

// MockNotificationRepo is a mock implementation of port.NotificationRepository.
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Insert(ctx context.Context, n *domain.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) ListByRecipient(ctx context.Context, org string, offset, limit int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, org, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}
