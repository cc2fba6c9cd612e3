package allocations

import (
	"context"
	"time"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services/aggregation"
	"github.com/midburn/spark-admin/services/audit"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

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

// MockAuditTrail is a mock implementation of AuditTrail
type MockAuditTrail struct {
	mock.Mock
}

func (m *MockAuditTrail) Record(ctx context.Context, auditType models.AuditType, userID int) (*models.AuditRecord, error) {
	args := m.Called(ctx, auditType, userID)
	if record := args.Get(0); record != nil {
		return record.(*models.AuditRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditTrail) Latest(ctx context.Context, auditType models.AuditType) (*audit.LastAudit, error) {
	args := m.Called(ctx, auditType)
	if latest := args.Get(0); latest != nil {
		return latest.(*audit.LastAudit), args.Error(1)
	}
	return nil, args.Error(1)
}

func quota(n int) *int {
	return &n
}

func coordinatorFactory(groups *MockGroupsRepository, allocations *MockAllocationsRepository) CoordinatorFactory {
	logger := zap.NewNop()
	return func() *aggregation.Coordinator {
		return aggregation.NewCoordinator(aggregation.NewAggregator(groups, time.Second, logger), allocations, 0, logger)
	}
}
