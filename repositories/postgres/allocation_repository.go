package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"go.uber.org/zap"
)

// AllocationRepository implements the repositories.AllocationsRepository interface
type AllocationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *DB, logger *zap.Logger) repositories.AllocationsRepository {
	return &AllocationRepository{
		db:     db,
		logger: logger,
	}
}

// GetGroupsAllocations retrieves the allocations of every group in groupIDs
// with a single query
func (r *AllocationRepository) GetGroupsAllocations(ctx context.Context, groupIDs []int) ([]models.Allocation, error) {
	if len(groupIDs) == 0 {
		return []models.Allocation{}, nil
	}

	query := `
		SELECT id, camp_id, allocated_to, allocation_type, event_id, created_at
		FROM allocations
		WHERE camp_id = ANY($1)
		ORDER BY camp_id, id
	`

	ids := make([]int64, len(groupIDs))
	for i, id := range groupIDs {
		ids[i] = int64(id)
	}

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	allocations := []models.Allocation{}
	for rows.Next() {
		var a models.Allocation
		if err := rows.Scan(
			&a.ID,
			&a.GroupID,
			&a.AllocatedTo,
			&a.AllocationType,
			&a.EventID,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}

	r.logger.Debug("allocations loaded",
		zap.Int("groups", len(groupIDs)),
		zap.Int("allocations", len(allocations)))
	return allocations, nil
}
