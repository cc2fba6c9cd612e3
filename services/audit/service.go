package audit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LastAudit is the newest audit record of a type together with its author
type LastAudit struct {
	Record     *models.AuditRecord `json:"record"`
	AuthorName string              `json:"author_name"`
}

// Trail records and reads audit records for admin workflows
type Trail struct {
	audits repositories.AuditRepository
	users  repositories.UsersRepository
	logger *zap.Logger

	// deduplicates concurrent author name lookups for the same user
	names singleflight.Group
}

// NewTrail creates a new Trail instance
func NewTrail(audits repositories.AuditRepository, users repositories.UsersRepository, logger *zap.Logger) *Trail {
	return &Trail{
		audits: audits,
		users:  users,
		logger: logger,
	}
}

// Record appends a new audit record of auditType attributed to userID
func (t *Trail) Record(ctx context.Context, auditType models.AuditType, userID int) (*models.AuditRecord, error) {
	record := models.NewAuditRecord(auditType, userID)
	if err := t.audits.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to insert audit record: %w", err)
	}

	t.logger.Debug("recorded audit",
		zap.String("type", string(auditType)),
		zap.Int("updated_by", userID),
		zap.String("audit_id", record.ID.String()))

	return record, nil
}

// Latest returns the newest record of auditType and its author's name.
// It returns nil without looking up any author when no record exists.
func (t *Trail) Latest(ctx context.Context, auditType models.AuditType) (*LastAudit, error) {
	records, err := t.audits.GetAudits(ctx, auditType)
	if err != nil {
		return nil, fmt.Errorf("failed to get audits: %w", err)
	}
	if len(records) == 0 || records[0] == nil {
		return nil, nil
	}

	latest := &LastAudit{Record: records[0]}
	name, err := t.authorName(ctx, latest.Record.UpdatedBy)
	if err != nil {
		t.logger.Warn("failed to resolve audit author",
			zap.Int("updated_by", latest.Record.UpdatedBy),
			zap.Error(err))
		return latest, nil
	}
	latest.AuthorName = name

	return latest, nil
}

func (t *Trail) authorName(ctx context.Context, userID int) (string, error) {
	v, err, _ := t.names.Do(strconv.Itoa(userID), func() (interface{}, error) {
		userName, err := t.users.GetUserNameByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if userName == nil {
			return "", nil
		}
		return userName.Name, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
