package handlers

import (
	"context"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services/allocations"
	"github.com/midburn/spark-admin/services/audit"
	"github.com/midburn/spark-admin/services/bootstrap"
	"github.com/stretchr/testify/mock"
)

// MockBootstrapService is a mock implementation of BootstrapService
type MockBootstrapService struct {
	mock.Mock
}

func (m *MockBootstrapService) Initialize(ctx context.Context, token string) (*bootstrap.State, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bootstrap.State), args.Error(1)
}

// MockPresaleService is a mock implementation of PresaleService
type MockPresaleService struct {
	mock.Mock
}

func (m *MockPresaleService) Load(ctx context.Context, session *models.Session, groupType models.GroupType) (*allocations.View, error) {
	args := m.Called(ctx, session, groupType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocations.View), args.Error(1)
}

func (m *MockPresaleService) Stage(userID, groupID int, patch models.GroupPatch) error {
	args := m.Called(userID, groupID, patch)
	return args.Error(0)
}

func (m *MockPresaleService) Pending(userID int) map[int]models.GroupPatch {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[int]models.GroupPatch)
}

func (m *MockPresaleService) Discard(userID int) {
	m.Called(userID)
}

func (m *MockPresaleService) Commit(ctx context.Context, userID int) (int, *audit.LastAudit, error) {
	args := m.Called(ctx, userID)
	if args.Get(1) == nil {
		return args.Int(0), nil, args.Error(2)
	}
	return args.Int(0), args.Get(1).(*audit.LastAudit), args.Error(2)
}

// MockDGSService is a mock implementation of DGSService
type MockDGSService struct {
	mock.Mock
}

func (m *MockDGSService) Load(ctx context.Context, session *models.Session, groupType models.GroupType) (*allocations.View, error) {
	args := m.Called(ctx, session, groupType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocations.View), args.Error(1)
}

// MockSessionResolver is a mock implementation of middleware.SessionResolver
type MockSessionResolver struct {
	mock.Mock
}

func (m *MockSessionResolver) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// MockReleaser is a mock implementation of UserStateReleaser
type MockReleaser struct {
	mock.Mock
}

func (m *MockReleaser) Release(userID int) {
	m.Called(userID)
}
