package repositories

import (
	"context"

	"github.com/midburn/spark-admin/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ConfigurationProvider serves the application configuration
type ConfigurationProvider interface {
	// GetConfigurations returns the current configuration. A nil result means "empty".
	GetConfigurations(ctx context.Context) (*models.Configuration, error)
}

// SessionProvider resolves a presented session token to the logged user
type SessionProvider interface {
	// Authenticate validates the token and returns the login details
	Authenticate(ctx context.Context, token string) (*models.LoginDetails, error)
}

// GroupsRepository handles camp/art group data operations
type GroupsRepository interface {
	// GetAllGroups retrieves all groups of a type that took part in the given (former) event
	GetAllGroups(ctx context.Context, groupType models.GroupType, formerEventID string) ([]*models.Group, error)

	// GetOpenCamps retrieves camps open for joining in an event
	GetOpenCamps(ctx context.Context, eventID string) ([]*models.Group, error)

	// GetOpenArts retrieves art installations open for joining in an event
	GetOpenArts(ctx context.Context, eventID string) ([]*models.Group, error)

	// GetUserGroups retrieves the groups a user belongs to in an event
	GetUserGroups(ctx context.Context, userID int, eventID string) ([]*models.Group, error)

	// GetPresaleAllocationGroups retrieves the groups with a presale quota in an event
	GetPresaleAllocationGroups(ctx context.Context, eventID string) ([]*models.Group, error)

	// GetCampMembers retrieves every member of a group
	GetCampMembers(ctx context.Context, groupID int) ([]models.Member, error)

	// GetCampMembersTickets retrieves the tickets of a group's members.
	// An empty eventID means the group's own event.
	GetCampMembersTickets(ctx context.Context, groupID int, eventID string) ([]models.Ticket, error)

	// UpdatePresaleQuota applies a batch of quota patches
	UpdatePresaleQuota(ctx context.Context, patches []models.QuotaPatch) error
}

// EventsRepository handles event data operations
type EventsRepository interface {
	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
}

// AllocationsRepository handles ticket allocation data operations
type AllocationsRepository interface {
	// GetGroupsAllocations retrieves allocations for a batch of groups in one call
	GetGroupsAllocations(ctx context.Context, groupIDs []int) ([]models.Allocation, error)
}

// AuditRepository handles audit record data operations
type AuditRepository interface {
	// Insert appends a new audit record
	Insert(ctx context.Context, record *models.AuditRecord) error

	// GetAudits retrieves the records of a type, newest first
	GetAudits(ctx context.Context, auditType models.AuditType) ([]*models.AuditRecord, error)
}

// UsersRepository handles user data operations
type UsersRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int) (*models.User, error)

	// GetUserNameByID retrieves the display name of a user
	GetUserNameByID(ctx context.Context, id int) (*models.UserName, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Configurations ConfigurationProvider
	Groups         GroupsRepository
	Events         EventsRepository
	Allocations    AllocationsRepository
	Audits         AuditRepository
	Users          UsersRepository
}
