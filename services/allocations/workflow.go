package allocations

import (
	"context"
	"sync"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/services/audit"
	"go.uber.org/zap"
)

// QuotaStore persists a batch of presale quota patches
type QuotaStore interface {
	UpdatePresaleQuota(ctx context.Context, patches []models.QuotaPatch) error
}

// AuditTrail records and reads audit records
type AuditTrail interface {
	Record(ctx context.Context, auditType models.AuditType, userID int) (*models.AuditRecord, error)
	Latest(ctx context.Context, auditType models.AuditType) (*audit.LastAudit, error)
}

// AuditedSaveWorkflow commits an EditBuffer in one batch and records who did it
type AuditedSaveWorkflow struct {
	buffer    *EditBuffer
	store     QuotaStore
	trail     AuditTrail
	auditType models.AuditType
	logger    *zap.Logger

	// one commit at a time per buffer
	commitMu sync.Mutex
}

// NewAuditedSaveWorkflow creates a new AuditedSaveWorkflow instance
func NewAuditedSaveWorkflow(buffer *EditBuffer, store QuotaStore, trail AuditTrail, auditType models.AuditType, logger *zap.Logger) *AuditedSaveWorkflow {
	return &AuditedSaveWorkflow{
		buffer:    buffer,
		store:     store,
		trail:     trail,
		auditType: auditType,
		logger:    logger,
	}
}

// Buffer returns the edit buffer the workflow commits
func (w *AuditedSaveWorkflow) Buffer() *EditBuffer {
	return w.buffer
}

// Commit submits every staged patch as one batch and returns the batch size.
// An empty buffer is a no-op that returns 0. When the batch fails the buffer
// is left untouched and a save error is returned. On success the returned
// audit is the refreshed latest record, which may be nil if it could not be
// read back.
func (w *AuditedSaveWorkflow) Commit(ctx context.Context, userID int) (int, *audit.LastAudit, error) {
	w.commitMu.Lock()
	defer w.commitMu.Unlock()

	batch := w.buffer.snapshot()
	submitted := len(batch.patches)
	if submitted == 0 {
		return 0, nil, nil
	}

	if err := w.store.UpdatePresaleQuota(ctx, batch.patches); err != nil {
		w.logger.Error("failed to save presale quota changes",
			zap.Int("user_id", userID),
			zap.Int("patches", submitted),
			zap.Error(err))
		return 0, nil, services.NewSaveError(err).WithDetail("pending", submitted)
	}
	w.buffer.clearCommitted(batch)

	w.logger.Info("saved presale quota changes",
		zap.Int("user_id", userID),
		zap.Int("patches", submitted))

	if _, err := w.trail.Record(ctx, w.auditType, userID); err != nil {
		w.logger.Error("changes saved without audit record",
			zap.Int("user_id", userID),
			zap.Error(services.NewAuditWriteError(err)))
	}

	latest, err := w.trail.Latest(ctx, w.auditType)
	if err != nil {
		w.logger.Warn("failed to refresh latest audit", zap.Error(err))
		return submitted, nil, nil
	}
	return submitted, latest, nil
}
