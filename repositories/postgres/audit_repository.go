package postgres

import (
	"context"
	"fmt"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"go.uber.org/zap"
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a new audit record. Records are never updated.
func (r *AuditRepository) Insert(ctx context.Context, record *models.AuditRecord) error {
	query := `
		INSERT INTO audits (id, type, updated_by, created_at)
		VALUES ($1, $2, $3, $4)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		record.ID,
		record.Type,
		record.UpdatedBy,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	r.logger.Debug("audit record inserted",
		zap.String("id", record.ID.String()),
		zap.String("type", string(record.Type)),
		zap.Int("updated_by", record.UpdatedBy))
	return nil
}

// GetAudits retrieves the records of a type, newest first
func (r *AuditRepository) GetAudits(ctx context.Context, auditType models.AuditType) ([]*models.AuditRecord, error) {
	query := `
		SELECT id, type, updated_by, created_at
		FROM audits
		WHERE type = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, auditType)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	var records []*models.AuditRecord
	for rows.Next() {
		record := &models.AuditRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.Type,
			&record.UpdatedBy,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audits: %w", err)
	}

	return records, nil
}
