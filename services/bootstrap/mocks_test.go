package bootstrap

import (
	"context"

	"github.com/midburn/spark-admin/models"
	"github.com/stretchr/testify/mock"
)

// MockConfigurationProvider is a mock implementation of ConfigurationProvider
type MockConfigurationProvider struct {
	mock.Mock
}

func (m *MockConfigurationProvider) GetConfigurations(ctx context.Context) (*models.Configuration, error) {
	args := m.Called(ctx)
	if cfg := args.Get(0); cfg != nil {
		return cfg.(*models.Configuration), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionProvider is a mock implementation of SessionProvider
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) Authenticate(ctx context.Context, token string) (*models.LoginDetails, error) {
	args := m.Called(ctx, token)
	if details := args.Get(0); details != nil {
		return details.(*models.LoginDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventsRepository is a mock implementation of EventsRepository
type MockEventsRepository struct {
	mock.Mock
}

func (m *MockEventsRepository) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	if event := args.Get(0); event != nil {
		return event.(*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGroupsRepository is a mock implementation of GroupsRepository
type MockGroupsRepository struct {
	mock.Mock
}

func (m *MockGroupsRepository) GetAllGroups(ctx context.Context, groupType models.GroupType, formerEventID string) ([]*models.Group, error) {
	args := m.Called(ctx, groupType, formerEventID)
	if groups := args.Get(0); groups != nil {
		return groups.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) GetOpenCamps(ctx context.Context, eventID string) ([]*models.Group, error) {
	args := m.Called(ctx, eventID)
	if groups := args.Get(0); groups != nil {
		return groups.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) GetOpenArts(ctx context.Context, eventID string) ([]*models.Group, error) {
	args := m.Called(ctx, eventID)
	if groups := args.Get(0); groups != nil {
		return groups.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) GetUserGroups(ctx context.Context, userID int, eventID string) ([]*models.Group, error) {
	args := m.Called(ctx, userID, eventID)
	if groups := args.Get(0); groups != nil {
		return groups.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) GetPresaleAllocationGroups(ctx context.Context, eventID string) ([]*models.Group, error) {
	args := m.Called(ctx, eventID)
	if groups := args.Get(0); groups != nil {
		return groups.([]*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) GetCampMembers(ctx context.Context, groupID int) ([]models.Member, error) {
	args := m.Called(ctx, groupID)
	if members := args.Get(0); members != nil {
		return members.([]models.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) GetCampMembersTickets(ctx context.Context, groupID int, eventID string) ([]models.Ticket, error) {
	args := m.Called(ctx, groupID, eventID)
	if tickets := args.Get(0); tickets != nil {
		return tickets.([]models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupsRepository) UpdatePresaleQuota(ctx context.Context, patches []models.QuotaPatch) error {
	args := m.Called(ctx, patches)
	return args.Error(0)
}

// MockAllocationsRepository is a mock implementation of AllocationsRepository
type MockAllocationsRepository struct {
	mock.Mock
}

func (m *MockAllocationsRepository) GetGroupsAllocations(ctx context.Context, groupIDs []int) ([]models.Allocation, error) {
	args := m.Called(ctx, groupIDs)
	if allocations := args.Get(0); allocations != nil {
		return allocations.([]models.Allocation), args.Error(1)
	}
	return nil, args.Error(1)
}
