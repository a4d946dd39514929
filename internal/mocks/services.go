package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockMeasurementService is a testify mock of service.MeasurementService.
type MockMeasurementService struct {
	mock.Mock
}

var _ service.MeasurementService = (*MockMeasurementService)(nil)

func (m *MockMeasurementService) Calculate(
	ctx context.Context,
	ownerID uuid.UUID,
	weight, height domain.RawNumber,
) (*domain.Measurement, error) {
	args := m.Called(ctx, ownerID, weight, height)
	if rec, ok := args.Get(0).(*domain.Measurement); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeasurementService) History(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.HistoryQuery,
) ([]*domain.Measurement, error) {
	args := m.Called(ctx, ownerID, q)
	if recs, ok := args.Get(0).([]*domain.Measurement); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeasurementService) Statistics(ctx context.Context, ownerID uuid.UUID) (*domain.Statistics, error) {
	args := m.Called(ctx, ownerID)
	if stats, ok := args.Get(0).(*domain.Statistics); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMeasurementService) Export(ctx context.Context, ownerID uuid.UUID) (*service.ExportData, error) {
	args := m.Called(ctx, ownerID)
	if data, ok := args.Get(0).(*service.ExportData); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserService is a testify mock of service.UserService.
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	return userResult(args)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	return userResult(args)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userResult(args)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update service.ProfileUpdate,
) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	return userResult(args)
}

func userResult(args mock.Arguments) (*domain.User, error) {
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
