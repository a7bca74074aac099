package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"orgcomply/internal/domain"
)

// MockEventRepo is a mock implementation of port.EventRepository.
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) ListByTargets(ctx context.Context, targets []string) ([]domain.Event, error) {
	args := m.Called(ctx, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepo) SetDeadlineOverride(ctx context.Context, id uuid.UUID, kind domain.ReportKind, date *time.Time) error {
	args := m.Called(ctx, id, kind, date)
	return args.Error(0)
}
