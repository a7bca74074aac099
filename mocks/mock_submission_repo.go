package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

// MockSubmissionRepo is a mock implementation of port.SubmissionRepository.
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Insert(ctx context.Context, record *domain.SubmissionRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, id int64) (*domain.SubmissionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionRecord), args.Error(1)
}

func (m *MockSubmissionRepo) List(ctx context.Context, filter port.SubmissionFilter) ([]domain.SubmissionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmissionRecord), args.Error(1)
}

func (m *MockSubmissionRepo) ListVisibleTo(ctx context.Context, org string) ([]domain.SubmissionRecord, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmissionRecord), args.Error(1)
}

func (m *MockSubmissionRepo) UpdateStatus(ctx context.Context, id int64, status domain.SubmissionStatus, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

func (m *MockSubmissionRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
