package postgres

import (
	"context"
	"fmt"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/services"
	"go.uber.org/zap"
)

const groupColumns = `c.id, c.__prototype, c.name, c.event_id, c.status, c.pre_sale_tickets_quota`

// GroupRepository implements the repositories.GroupsRepository interface
type GroupRepository struct {
	db     *DB
	tm     repositories.TransactionManager
	logger *zap.Logger
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *DB, tm repositories.TransactionManager, logger *zap.Logger) repositories.GroupsRepository {
	return &GroupRepository{
		db:     db,
		tm:     tm,
		logger: logger,
	}
}

// GetAllGroups retrieves all groups of a type. When formerEventID is set only
// the groups of that event are returned.
func (r *GroupRepository) GetAllGroups(ctx context.Context, groupType models.GroupType, formerEventID string) ([]*models.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM camps c
		WHERE c.__prototype = $1 AND ($2 = '' OR c.event_id = $2)
		ORDER BY c.name, c.id
	`
	return r.queryGroups(ctx, query, groupType, formerEventID)
}

// GetOpenCamps retrieves camps open for joining in an event
func (r *GroupRepository) GetOpenCamps(ctx context.Context, eventID string) ([]*models.Group, error) {
	return r.getOpen(ctx, models.GroupTypeCamp, eventID)
}

// GetOpenArts retrieves art installations open for joining in an event
func (r *GroupRepository) GetOpenArts(ctx context.Context, eventID string) ([]*models.Group, error) {
	return r.getOpen(ctx, models.GroupTypeArtInstallation, eventID)
}

func (r *GroupRepository) getOpen(ctx context.Context, groupType models.GroupType, eventID string) ([]*models.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM camps c
		WHERE c.__prototype = $1 AND c.event_id = $2 AND c.status = 'open'
		ORDER BY c.name, c.id
	`
	return r.queryGroups(ctx, query, groupType, eventID)
}

// GetUserGroups retrieves the groups a user is an active member of in an event
func (r *GroupRepository) GetUserGroups(ctx context.Context, userID int, eventID string) ([]*models.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM camps c
		JOIN camp_members cm ON cm.camp_id = c.id
		WHERE cm.user_id = $1 AND c.event_id = $2
		  AND cm.status IN ('approved', 'approved_mgr')
		ORDER BY c.name, c.id
	`
	return r.queryGroups(ctx, query, userID, eventID)
}

// GetPresaleAllocationGroups retrieves the groups of an event that hold a
// presale quota
func (r *GroupRepository) GetPresaleAllocationGroups(ctx context.Context, eventID string) ([]*models.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM camps c
		WHERE c.event_id = $1 AND c.pre_sale_tickets_quota > 0
		ORDER BY c.name, c.id
	`
	return r.queryGroups(ctx, query, eventID)
}

// GetCampMembers retrieves every member of a group, whatever their status
func (r *GroupRepository) GetCampMembers(ctx context.Context, groupID int) ([]models.Member, error) {
	query := `
		SELECT user_id, camp_id, status
		FROM camp_members
		WHERE camp_id = $1
		ORDER BY user_id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query camp members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.GroupID, &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan camp member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating camp members: %w", err)
	}

	return members, nil
}

// GetCampMembersTickets retrieves the tickets held by a group's members for
// eventID, or for the group's own event when eventID is empty
func (r *GroupRepository) GetCampMembersTickets(ctx context.Context, groupID int, eventID string) ([]models.Ticket, error) {
	query := `
		SELECT t.ticket_id, t.holder_id, cm.camp_id, t.event_id, t.ticket_status, t.entrance_timestamp
		FROM tickets t
		JOIN camp_members cm ON cm.user_id = t.holder_id
		JOIN camps c ON c.id = cm.camp_id
		WHERE cm.camp_id = $1 AND t.event_id = COALESCE(NULLIF($2, ''), c.event_id)
		ORDER BY t.ticket_id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, groupID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query camp tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.GroupID,
			&t.EventID,
			&t.Status,
			&t.EnteredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// UpdatePresaleQuota applies every patch in one transaction. A patch naming
// an unknown group rolls the whole batch back.
func (r *GroupRepository) UpdatePresaleQuota(ctx context.Context, patches []models.QuotaPatch) error {
	if len(patches) == 0 {
		return nil
	}

	query := `
		UPDATE camps
		SET pre_sale_tickets_quota = $2, updated_at = NOW()
		WHERE id = $1
	`

	err := r.tm.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		executor := GetExecutor(ctx, r.db)
		for _, p := range patches {
			result, err := executor.ExecContext(ctx, query, p.ID, p.PreSaleTicketsQuota)
			if err != nil {
				return fmt.Errorf("failed to update presale quota of group %d: %w", p.ID, err)
			}

			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if rows == 0 {
				return services.WrapError(services.ErrorTypeNotFound, fmt.Sprintf("group not found: %d", p.ID), services.ErrGroupNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("presale quotas updated", zap.Int("groups", len(patches)))
	return nil
}

func (r *GroupRepository) queryGroups(ctx context.Context, query string, args ...interface{}) ([]*models.Group, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(
			&g.ID,
			&g.Type,
			&g.Name,
			&g.EventID,
			&g.Status,
			&g.PreSaleTicketsQuota,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.ResetMetrics()
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}
